// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/leseb/doctext/pkg/core/schema"
	"github.com/leseb/doctext/pkg/extractor"
	"github.com/leseb/doctext/pkg/history"
	"github.com/leseb/doctext/pkg/observability/logging"
)

// ErrHistoryDisabled is returned by the history queries when no store is configured.
var ErrHistoryDisabled = errors.New("extraction history is disabled")

// UnsupportedFormatError is returned for a filename that matches no extractor.
// Its message is the one sent to clients.
type UnsupportedFormatError struct {
	Filename string // lowercased
}

func (e *UnsupportedFormatError) Error() string {
	return "Formato não suportado: " + e.Filename
}

func (e *UnsupportedFormatError) Unwrap() error {
	return extractor.ErrUnsupportedFormat
}

// ExtractionService runs the format extractors and records each outcome in
// the optional history store.
//
// A nil history store disables recording; Extract behaves the same either way.
type ExtractionService struct {
	logger    *logging.Logger
	history   history.Store
	storeText bool
	now       func() time.Time
}

// NewExtractionService creates an ExtractionService. store may be nil.
func NewExtractionService(logger *logging.Logger, store history.Store, storeText bool) *ExtractionService {
	return &ExtractionService{
		logger:    logger,
		history:   store,
		storeText: storeText,
		now:       time.Now,
	}
}

// HistoryEnabled reports whether extractions are being recorded.
func (s *ExtractionService) HistoryEnabled() bool {
	return s.history != nil
}

// Extract returns the text of one uploaded document. The returned error's
// message is safe to send back to the client.
func (s *ExtractionService) Extract(ctx context.Context, filename string, content []byte) (*schema.ExtractResponse, error) {
	start := s.now()
	format, text, err := extractor.Extract(content, filename)
	elapsed := s.now().Sub(start)

	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		err = &UnsupportedFormatError{Filename: strings.ToLower(filename)}
		s.logger.Debug("Unsupported format", "filename", filename)
	case err != nil:
		s.logger.Warn("Extraction failed",
			"filename", filename,
			"file_type", format,
			"bytes", len(content),
			"error", err)
	default:
		s.logger.Info("Extracted text",
			"filename", filename,
			"file_type", format,
			"bytes", len(content),
			"text_bytes", len(text),
			"duration", elapsed)
	}

	s.record(ctx, filename, format, content, text, err, start, elapsed)

	if err != nil {
		return nil, err
	}
	return &schema.ExtractResponse{
		Success:  true,
		Text:     text,
		FileType: string(format),
		Filename: filename,
	}, nil
}

// record saves the outcome. Failures are logged and never reach the caller.
func (s *ExtractionService) record(ctx context.Context, filename string, format extractor.Format, content []byte, text string, extractErr error, start time.Time, elapsed time.Duration) {
	if s.history == nil {
		return
	}

	rec := &history.Record{
		ID:        history.NewID(),
		Filename:  filename,
		FileType:  string(format),
		Success:   extractErr == nil,
		Bytes:     int64(len(content)),
		TextBytes: int64(len(text)),
		Duration:  elapsed,
		CreatedAt: start.UTC(),
	}
	if extractErr != nil {
		rec.Error = extractErr.Error()
	}
	if s.storeText {
		rec.Text = text
	}

	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Error("Failed to record extraction", "id", rec.ID, "filename", filename, "error", err)
	}
}

// GetExtraction returns one recorded extraction.
func (s *ExtractionService) GetExtraction(ctx context.Context, id string) (*schema.Extraction, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	rec, err := s.history.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ext := toSchema(rec)
	return &ext, nil
}

// ListExtractions returns one page of recorded extractions.
func (s *ExtractionService) ListExtractions(ctx context.Context, req schema.ListExtractionsRequest) (*schema.ListExtractionsResponse, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}

	order := req.Order
	if order != "asc" {
		order = "desc"
	}
	records, hasMore, err := s.history.List(ctx, req.After, history.NormalizeLimit(req.Limit), order)
	if err != nil {
		return nil, err
	}

	resp := &schema.ListExtractionsResponse{
		Object:  "list",
		Data:    make([]schema.Extraction, 0, len(records)),
		HasMore: hasMore,
	}
	for _, rec := range records {
		resp.Data = append(resp.Data, toSchema(rec))
	}
	if len(resp.Data) > 0 {
		resp.FirstID = resp.Data[0].ID
		resp.LastID = resp.Data[len(resp.Data)-1].ID
	}
	return resp, nil
}

func toSchema(rec *history.Record) schema.Extraction {
	return schema.Extraction{
		ID:         rec.ID,
		Object:     "extraction",
		Filename:   rec.Filename,
		FileType:   rec.FileType,
		Success:    rec.Success,
		Error:      rec.Error,
		Bytes:      rec.Bytes,
		TextBytes:  rec.TextBytes,
		Text:       rec.Text,
		DurationMs: rec.Duration.Milliseconds(),
		CreatedAt:  rec.CreatedAt.Unix(),
	}
}
