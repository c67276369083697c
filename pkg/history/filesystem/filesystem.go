// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package filesystem registers the "filesystem" history backend.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/leseb/doctext/pkg/history"
)

func init() {
	history.Providers.Register("filesystem", func(_ context.Context, params map[string]string) (history.Store, error) {
		return New(params["path"])
	})
}

// compile-time check
var _ history.Store = (*Store)(nil)

// Store implements history.Store backed by a local directory.
//
// Layout:
//
//	<baseDir>/<record_id>.json
type Store struct {
	baseDir string
}

// New creates a filesystem-backed Store, creating baseDir if it does not exist.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("filesystem history: path is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Save writes the record to a temp file and links it into place, so readers
// never see a partial document and an existing id is never overwritten.
func (s *Store) Save(_ context.Context, rec *history.Record) error {
	if rec.ID == "" || strings.ContainsAny(rec.ID, `/\`) {
		return fmt.Errorf("invalid extraction id %q", rec.ID)
	}
	data, err := history.MarshalRecord(rec)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.baseDir, ".tmp-"+rec.ID+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write extraction %s: %w", rec.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Link(tmp.Name(), s.path(rec.ID)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("extraction %s already exists", rec.ID)
		}
		return fmt.Errorf("link extraction %s: %w", rec.ID, err)
	}
	return nil
}

// Get reads one record.
func (s *Store) Get(_ context.Context, id string) (*history.Record, error) {
	if strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("extraction %s: %w", id, history.ErrNotFound)
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("extraction %s: %w", id, history.ErrNotFound)
		}
		return nil, fmt.Errorf("read extraction %s: %w", id, err)
	}
	return history.UnmarshalRecord(data)
}

// List reads every record in the directory and paginates in memory.
func (s *Store) List(_ context.Context, after string, limit int, order string) ([]*history.Record, bool, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, false, fmt.Errorf("read base dir: %w", err)
	}

	var records []*history.Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, name))
		if err != nil {
			continue // removed concurrently
		}
		rec, err := history.UnmarshalRecord(data)
		if err != nil {
			continue // skip corrupt entries
		}
		records = append(records, rec)
	}

	page, hasMore := history.Paginate(records, after, limit, order)
	return page, hasMore, nil
}

// Close is a no-op for the filesystem store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
