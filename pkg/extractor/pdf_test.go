// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"testing"
)

func TestExtractPDF(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{
			name:  "empty first page is skipped",
			pages: []string{"", "p2"},
			want:  "[Página 2]\np2",
		},
		{
			name:  "pages joined by blank line",
			pages: []string{"one", "two"},
			want:  "[Página 1]\none\n\n[Página 2]\ntwo",
		},
		{
			name:  "no text at all",
			pages: []string{"", ""},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractPDF(buildPDF(t, tt.pages))
			if err != nil {
				t.Fatalf("extractPDF() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("extractPDF() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPDF_Truncated(t *testing.T) {
	content := buildPDF(t, []string{"hello"})
	truncated := content[:len(content)/2]

	if _, _, err := Extract(truncated, "half.pdf"); err == nil {
		t.Fatal("expected error for a truncated PDF")
	}
}

func TestExtractPDF_NotAPDF(t *testing.T) {
	_, err := extractPDF(bytes.Repeat([]byte{0xff}, 64))
	if err == nil {
		t.Fatal("expected error for random bytes")
	}
}
