// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leseb/doctext/pkg/core/schema"
	"github.com/leseb/doctext/pkg/core/services"
	"github.com/leseb/doctext/pkg/observability/logging"
)

// DefaultMaxUploadMemory is the multipart memory budget used when none is configured.
const DefaultMaxUploadMemory = 32 << 20

// Options configures the HTTP adapter
type Options struct {
	MaxUploadMemory int64 // bytes of a multipart upload kept in memory
}

// Handler implements the HTTP adapter
type Handler struct {
	extraction      *services.ExtractionService
	logger          *logging.Logger
	router          chi.Router
	maxUploadMemory int64
}

// New creates a new HTTP handler
func New(extraction *services.ExtractionService, logger *logging.Logger, opts Options) *Handler {
	h := &Handler{
		extraction:      extraction,
		logger:          logger,
		router:          chi.NewRouter(),
		maxUploadMemory: opts.MaxUploadMemory,
	}
	if h.maxUploadMemory <= 0 {
		h.maxUploadMemory = DefaultMaxUploadMemory
	}

	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.RealIP)
	h.router.Use(h.logRequest)
	h.router.Use(middleware.Recoverer)

	// Register routes
	h.router.Get("/", h.handleHealth)
	h.router.Get("/openapi.json", h.handleOpenAPI)
	h.router.Post("/extract", h.handleExtract)

	// Extraction history, only when a backend is configured
	if extraction.HistoryEnabled() {
		h.router.Get("/extractions", h.handleListExtractions)
		h.router.Get("/extractions/{id}", h.handleGetExtraction)
	}

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// logRequest logs every request once the request id is known
func (h *Handler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles liveness probes
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, schema.HealthResponse{Status: "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError writes the failure envelope
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, schema.ErrorResponse{
		Success: false,
		Error:   message,
	})
}
