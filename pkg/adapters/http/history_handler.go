// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leseb/doctext/pkg/core/schema"
	"github.com/leseb/doctext/pkg/history"
)

// handleListExtractions handles GET /extractions
func (h *Handler) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := schema.ListExtractionsRequest{
		After: query.Get("after"),
		Order: query.Get("order"),
	}
	if req.Order == "" {
		req.Order = "desc"
	}
	if req.Order != "asc" && req.Order != "desc" {
		h.writeError(w, http.StatusBadRequest, "order must be \"asc\" or \"desc\"")
		return
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > history.MaxLimit {
			h.writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		req.Limit = l
	}

	resp, err := h.extraction.ListExtractions(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to list extractions", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleGetExtraction handles GET /extractions/{id}
func (h *Handler) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ext, err := h.extraction.GetExtraction(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("Failed to get extraction", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, ext)
}
