// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package extractor turns office documents into plain text grouped by their
// structural units (slides, paragraphs, pages, worksheets).
package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies a supported document format. Its value is also the
// file_type reported to clients.
type Format string

const (
	FormatPPTX Format = "pptx"
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned when no extractor matches a filename.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Func extracts normalized text from the raw bytes of one document.
type Func func(content []byte) (string, error)

// extractors is the dispatch table from format to extractor.
var extractors = map[Format]Func{
	FormatPPTX: extractPPTX,
	FormatDOCX: extractDOCX,
	FormatPDF:  extractPDF,
	FormatXLSX: extractXLSX,
}

// Formats returns the supported formats in a stable order.
func Formats() []Format {
	return []Format{FormatPPTX, FormatDOCX, FormatPDF, FormatXLSX}
}

// Detect returns the format for filename based on its lowercased suffix.
func Detect(filename string) (Format, error) {
	lower := strings.ToLower(filename)
	if i := strings.LastIndexByte(lower, '.'); i >= 0 {
		if f := Format(lower[i+1:]); extractors[f] != nil {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, lower)
}

// Extract detects the format of filename and runs the matching extractor on
// content. A panic raised while walking the document is returned as an error.
func Extract(content []byte, filename string) (Format, string, error) {
	format, err := Detect(filename)
	if err != nil {
		return "", "", err
	}

	text, err := run(extractors[format], content)
	if err != nil {
		return format, "", err
	}
	return format, text, nil
}

func run(fn Func, content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(content)
}

// joinBlocks joins non-empty blocks with a blank line between them.
func joinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}
