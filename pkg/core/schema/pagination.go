// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// ListExtractionsRequest represents a request to list recorded extractions
type ListExtractionsRequest struct {
	After string `json:"after,omitempty"` // Cursor for pagination
	Limit int    `json:"limit,omitempty"` // Number of items (1-100, default 50)
	Order string `json:"order,omitempty"` // Sort order: "asc" or "desc" (default "desc")
}

// ListExtractionsResponse represents a page of recorded extractions
type ListExtractionsResponse struct {
	Object  string       `json:"object"`             // Always "list"
	Data    []Extraction `json:"data"`               // Array of extractions
	FirstID string       `json:"first_id,omitempty"` // ID of first item
	LastID  string       `json:"last_id,omitempty"`  // ID of last item
	HasMore bool         `json:"has_more"`           // Whether there are more results
}
