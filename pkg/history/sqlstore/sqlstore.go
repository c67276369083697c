// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlstore implements history.Store on top of database/sql. The
// sqlite and postgres backends share it and only differ in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leseb/doctext/pkg/history"
)

// Dialect captures the driver differences the store cares about.
type Dialect struct {
	Name string
	// Bind returns the placeholder for the n-th (1-based) query argument.
	Bind func(n int) string
}

// Store is a SQL-backed history.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// compile-time check
var _ history.Store = (*Store)(nil)

const columns = `id, filename, file_type, success, error, bytes, text_bytes, text_content, duration_ms, created_at`

// New wraps an open database and creates the schema if needed. The store
// owns db and closes it on Close.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{db: db, dialect: dialect}
	if err := s.createTables(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS extractions (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			file_type TEXT NOT NULL DEFAULT '',
			success BOOLEAN NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			bytes BIGINT NOT NULL DEFAULT 0,
			text_bytes BIGINT NOT NULL DEFAULT 0,
			text_content TEXT NOT NULL DEFAULT '',
			duration_ms BIGINT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extractions_created ON extractions(created_at, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s create tables: %w", s.dialect.Name, err)
		}
	}
	return nil
}

// binds returns n comma-separated placeholders starting at from.
func (s *Store) binds(from, n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = s.dialect.Bind(from + i)
	}
	return strings.Join(p, ", ")
}

// Save inserts rec. created_at is stored as Unix nanoseconds.
func (s *Store) Save(ctx context.Context, rec *history.Record) error {
	query := `INSERT INTO extractions (` + columns + `) VALUES (` + s.binds(1, 10) + `)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Filename, rec.FileType, rec.Success, rec.Error,
		rec.Bytes, rec.TextBytes, rec.Text, rec.Duration.Milliseconds(), rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("%s insert extraction %s: %w", s.dialect.Name, rec.ID, err)
	}
	return nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*history.Record, error) {
	query := `SELECT ` + columns + ` FROM extractions WHERE id = ` + s.dialect.Bind(1)
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("extraction %s: %w", id, history.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s get extraction %s: %w", s.dialect.Name, id, err)
	}
	return rec, nil
}

// List returns one page using keyset pagination on (created_at, id).
func (s *Store) List(ctx context.Context, after string, limit int, order string) ([]*history.Record, bool, error) {
	limit = history.NormalizeLimit(limit)
	dir, cmp := "DESC", "<"
	if order == "asc" {
		dir, cmp = "ASC", ">"
	}

	var (
		query string
		args  []any
	)
	if after == "" {
		query = fmt.Sprintf(`SELECT %s FROM extractions ORDER BY created_at %s, id %s LIMIT %s`,
			columns, dir, dir, s.dialect.Bind(1))
		args = []any{limit + 1}
	} else {
		var cursor int64
		err := s.db.QueryRowContext(ctx,
			`SELECT created_at FROM extractions WHERE id = `+s.dialect.Bind(1), after).Scan(&cursor)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("%s read cursor %s: %w", s.dialect.Name, after, err)
		}
		query = fmt.Sprintf(`SELECT %s FROM extractions
			WHERE created_at %s %s OR (created_at = %s AND id %s %s)
			ORDER BY created_at %s, id %s LIMIT %s`,
			columns, cmp, s.dialect.Bind(1), s.dialect.Bind(2), cmp, s.dialect.Bind(3),
			dir, dir, s.dialect.Bind(4))
		args = []any{cursor, cursor, after, limit + 1}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("%s list extractions: %w", s.dialect.Name, err)
	}
	defer rows.Close()

	var records []*history.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, false, fmt.Errorf("%s scan extraction: %w", s.dialect.Name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("%s list extractions: %w", s.dialect.Name, err)
	}

	if len(records) > limit {
		return records[:limit], true, nil
	}
	return records, false, nil
}

// Truncate deletes every record.
func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM extractions`); err != nil {
		return fmt.Errorf("%s truncate extractions: %w", s.dialect.Name, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*history.Record, error) {
	var (
		rec        history.Record
		durationMs int64
		createdAt  int64
	)
	err := sc.Scan(&rec.ID, &rec.Filename, &rec.FileType, &rec.Success, &rec.Error,
		&rec.Bytes, &rec.TextBytes, &rec.Text, &durationMs, &createdAt)
	if err != nil {
		return nil, err
	}
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return &rec, nil
}
