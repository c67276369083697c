// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/leseb/doctext/pkg/history"
)

func init() {
	history.Providers.Register("memory", func(_ context.Context, _ map[string]string) (history.Store, error) {
		return New(), nil
	})
}

// compile-time check
var _ history.Store = (*Store)(nil)

// Store keeps extraction records in process memory.
type Store struct {
	mu      sync.RWMutex
	records map[string]*history.Record
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]*history.Record),
	}
}

// Save stores a copy of rec.
func (s *Store) Save(_ context.Context, rec *history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("extraction %s already exists", rec.ID)
	}
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(_ context.Context, id string) (*history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return nil, fmt.Errorf("extraction %s: %w", id, history.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// List returns one page of records.
func (s *Store) List(_ context.Context, after string, limit int, order string) ([]*history.Record, bool, error) {
	s.mu.RLock()
	all := make([]*history.Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		all = append(all, &cp)
	}
	s.mu.RUnlock()

	page, hasMore := history.Paginate(all, after, limit, order)
	return page, hasMore, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
