// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status string `json:"status"` // Always "ok"
}

// ExtractResponse is the success envelope of POST /extract
type ExtractResponse struct {
	Success  bool   `json:"success"`                               // Always true
	Text     string `json:"text"`                                  // Extracted text, possibly empty
	FileType string `json:"file_type" enums:"pptx,docx,pdf,xlsx"` // Detected format
	Filename string `json:"filename"`                              // Original filename as uploaded
}

// ErrorResponse is the failure envelope of every endpoint
type ErrorResponse struct {
	Success bool   `json:"success"` // Always false
	Error   string `json:"error"`   // Human readable failure message
}

// Extraction is one recorded extraction request
type Extraction struct {
	ID         string `json:"id"`                   // Format: "ext_{hex}"
	Object     string `json:"object"`               // Always "extraction"
	Filename   string `json:"filename"`             // Original filename
	FileType   string `json:"file_type,omitempty"`  // Empty when the format was not recognized
	Success    bool   `json:"success"`              // Outcome of the extraction
	Error      string `json:"error,omitempty"`      // Failure message when Success is false
	Bytes      int64  `json:"bytes"`                // Uploaded size
	TextBytes  int64  `json:"text_bytes"`           // Size of the extracted text
	Text       string `json:"text,omitempty"`       // Only when history text storage is enabled
	DurationMs int64  `json:"duration_ms"`          // Extraction wall time
	CreatedAt  int64  `json:"created_at"`           // Unix timestamp
}
