// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const cellSeparator = " | "

// extractXLSX emits one "[Planilha: name]" block per worksheet that has at
// least one non-empty row.
func extractXLSX(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("open workbook: no worksheets found")
	}

	var blocks []string
	for _, name := range sheets {
		rows, err := sheetRows(f, name)
		if err != nil {
			return "", fmt.Errorf("sheet %q: %w", name, err)
		}
		if len(rows) == 0 {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[Planilha: %s]\n%s", name, strings.Join(rows, "\n")))
	}

	return joinBlocks(blocks), nil
}

// sheetRows renders the non-empty rows of a worksheet. Every row is padded to
// the sheet width so that missing cells render as empty strings.
func sheetRows(f *excelize.File, sheet string) ([]string, error) {
	it, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var cells [][]string
	width := sheetWidth(f, sheet)
	for it.Next() {
		cols, err := it.Columns()
		if err != nil {
			return nil, err
		}
		if len(cols) > width {
			width = len(cols)
		}
		cells = append(cells, cols)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	var rows []string
	for _, cols := range cells {
		if !anyNonEmpty(cols) {
			continue
		}
		padded := make([]string, width)
		copy(padded, cols)
		rows = append(rows, strings.Join(padded, cellSeparator))
	}
	return rows, nil
}

// sheetWidth returns the column count of the declared sheet dimension, or 0
// when the sheet does not declare one.
func sheetWidth(f *excelize.File, sheet string) int {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return 0
	}
	ref := dim
	if _, last, ok := strings.Cut(dim, ":"); ok {
		ref = last
	}
	col, _, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0
	}
	return col
}

func anyNonEmpty(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return true
		}
	}
	return false
}
