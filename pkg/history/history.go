// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package history records the outcome of extraction requests.
//
// Backends register themselves in Providers from their init functions:
//
//	import _ "github.com/leseb/doctext/pkg/history/memory"
//	import _ "github.com/leseb/doctext/pkg/history/filesystem"
//	import _ "github.com/leseb/doctext/pkg/history/sqlite"
//	import _ "github.com/leseb/doctext/pkg/history/postgres"
//	import _ "github.com/leseb/doctext/pkg/history/s3"
package history

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	"github.com/leseb/doctext/pkg/provider"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("extraction not found")

// Providers is the registry of history backend implementations.
var Providers = provider.NewRegistry[Store]("history")

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Record describes one extraction request.
type Record struct {
	ID        string
	Filename  string
	FileType  string
	Success   bool
	Error     string
	Bytes     int64
	TextBytes int64
	Text      string // empty unless text storage is enabled
	Duration  time.Duration
	CreatedAt time.Time
}

// Store persists extraction records.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records sorted by creation time. after is the ID of the
	// last record of the previous page; order is "asc" or "desc".
	List(ctx context.Context, after string, limit int, order string) ([]*Record, bool, error)
	Close(ctx context.Context) error
}

// NewID returns a random record identifier.
func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return "ext_" + hex.EncodeToString(b)
}

// NormalizeLimit clamps limit into [1, MaxLimit], using DefaultLimit for
// out-of-range values.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return DefaultLimit
	}
	return limit
}

// Paginate sorts records by creation time (ID breaks ties) and returns the
// page that follows the after cursor. An unknown cursor yields an empty page.
func Paginate(records []*Record, after string, limit int, order string) ([]*Record, bool) {
	limit = NormalizeLimit(limit)
	desc := order != "asc"

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if desc {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if desc {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})

	start := 0
	if after != "" {
		start = len(records)
		for i, r := range records {
			if r.ID == after {
				start = i + 1
				break
			}
		}
	}

	rest := records[start:]
	if len(rest) > limit {
		return rest[:limit], true
	}
	return rest, false
}
