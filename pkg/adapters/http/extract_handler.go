// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"io"
	"net/http"
)

// handleExtract handles POST /extract
//
// Every failure, whether reading the upload or extracting it, is a 400
// carrying the error message.
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadMemory); err != nil {
		h.logger.Debug("Failed to parse upload", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Debug("Missing file field", "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("Failed to read upload", "filename", header.Filename, "error", err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.extraction.Extract(r.Context(), header.Filename, content)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}
