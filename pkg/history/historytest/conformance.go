// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package historytest provides a shared conformance test suite for
// history.Store implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package historytest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leseb/doctext/pkg/history"
)

// RunConformanceTests exercises a Store implementation against the shared
// contract. newStore is called once per sub-test and must return an empty
// store.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) history.Store) {
	t.Helper()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("SaveAndGet", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		rec := &history.Record{
			ID:        "ext_success1",
			Filename:  "Relatório.docx",
			FileType:  "docx",
			Success:   true,
			Bytes:     2048,
			TextBytes: 11,
			Text:      "hello world",
			Duration:  35 * time.Millisecond,
			CreatedAt: base,
		}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := store.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		assertRecord(t, got, rec)
	})

	t.Run("SaveFailure", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		rec := &history.Record{
			ID:        "ext_failure1",
			Filename:  "report.txt",
			Error:     "Formato não suportado: report.txt",
			Bytes:     10,
			CreatedAt: base,
		}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}

		got, err := store.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		assertRecord(t, got, rec)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		_, err := store.Get(context.Background(), "ext_missing")
		if !errors.Is(err, history.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		rec := &history.Record{ID: "ext_dup", Filename: "a.pdf", CreatedAt: base}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := store.Save(ctx, rec); err == nil {
			t.Fatal("expected error saving a duplicate id")
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		page, hasMore, err := store.List(context.Background(), "", 10, "desc")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(page) != 0 || hasMore {
			t.Errorf("expected empty page, got %d records (has_more=%v)", len(page), hasMore)
		}
	})

	t.Run("ListPagination", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		for i := 1; i <= 5; i++ {
			rec := &history.Record{
				ID:        fmt.Sprintf("ext_%d", i),
				Filename:  fmt.Sprintf("file%d.pdf", i),
				FileType:  "pdf",
				Success:   true,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if err := store.Save(ctx, rec); err != nil {
				t.Fatalf("Save %s: %v", rec.ID, err)
			}
		}

		pages := []struct {
			after   string
			order   string
			want    []string
			hasMore bool
		}{
			{after: "", order: "desc", want: []string{"ext_5", "ext_4"}, hasMore: true},
			{after: "ext_4", order: "desc", want: []string{"ext_3", "ext_2"}, hasMore: true},
			{after: "ext_2", order: "desc", want: []string{"ext_1"}, hasMore: false},
			{after: "", order: "asc", want: []string{"ext_1", "ext_2"}, hasMore: true},
			{after: "ext_4", order: "asc", want: []string{"ext_5"}, hasMore: false},
			{after: "ext_unknown", order: "desc", want: nil, hasMore: false},
		}
		for _, p := range pages {
			got, hasMore, err := store.List(ctx, p.after, 2, p.order)
			if err != nil {
				t.Fatalf("List(after=%q, order=%s): %v", p.after, p.order, err)
			}
			if ids := recordIDs(got); !equalIDs(ids, p.want) || hasMore != p.hasMore {
				t.Errorf("List(after=%q, order=%s) = %v (has_more=%v), want %v (has_more=%v)",
					p.after, p.order, ids, hasMore, p.want, p.hasMore)
			}
		}
	})
}

func assertRecord(t *testing.T, got, want *history.Record) {
	t.Helper()
	if got.ID != want.ID || got.Filename != want.Filename || got.FileType != want.FileType ||
		got.Success != want.Success || got.Error != want.Error || got.Bytes != want.Bytes ||
		got.TextBytes != want.TextBytes || got.Text != want.Text || got.Duration != want.Duration {
		t.Errorf("record mismatch:\n got  %+v\n want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func recordIDs(records []*history.Record) []string {
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
