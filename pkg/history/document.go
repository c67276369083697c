// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// document is the JSON encoding of a Record used by object-per-record backends.
type document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Bytes      int64     `json:"bytes"`
	TextBytes  int64     `json:"text_bytes"`
	Text       string    `json:"text,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// MarshalRecord encodes rec as a JSON document.
func MarshalRecord(rec *Record) ([]byte, error) {
	data, err := json.Marshal(document{
		ID:         rec.ID,
		Filename:   rec.Filename,
		FileType:   rec.FileType,
		Success:    rec.Success,
		Error:      rec.Error,
		Bytes:      rec.Bytes,
		TextBytes:  rec.TextBytes,
		Text:       rec.Text,
		DurationMs: rec.Duration.Milliseconds(),
		CreatedAt:  rec.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	return data, nil
}

// UnmarshalRecord decodes a document written by MarshalRecord.
func UnmarshalRecord(data []byte) (*Record, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &Record{
		ID:        doc.ID,
		Filename:  doc.Filename,
		FileType:  doc.FileType,
		Success:   doc.Success,
		Error:     doc.Error,
		Bytes:     doc.Bytes,
		TextBytes: doc.TextBytes,
		Text:      doc.Text,
		Duration:  time.Duration(doc.DurationMs) * time.Millisecond,
		CreatedAt: doc.CreatedAt,
	}, nil
}
