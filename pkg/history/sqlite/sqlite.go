// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlite registers the "sqlite" history backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leseb/doctext/pkg/history"
	"github.com/leseb/doctext/pkg/history/sqlstore"

	_ "modernc.org/sqlite"
)

func init() {
	history.Providers.Register("sqlite", func(ctx context.Context, params map[string]string) (history.Store, error) {
		return New(ctx, params["path"])
	})
}

var dialect = sqlstore.Dialect{
	Name: "sqlite",
	Bind: func(int) string { return "?" },
}

// New opens (or creates) the database file at path. ":memory:" keeps the
// history in process memory.
func New(ctx context.Context, path string) (*sqlstore.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite history: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// One connection: a shared ":memory:" database and no SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}

	store, err := sqlstore.New(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
