// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const (
	nsPresentation = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	nsWord     = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`
	nsPackage  = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
	relTypeSld = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

// zipParts writes parts into an in-memory ZIP archive.
func zipParts(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// slideXMLFor renders a slide whose shapes hold the given texts. A shape text
// may contain "\n" to produce several paragraphs.
func slideXMLFor(shapes []string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<p:sld ` + nsPresentation + `><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr><p:grpSpPr/>`)
	for i, text := range shapes {
		fmt.Fprintf(&sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/>`, i+2, i+1)
		for _, para := range strings.Split(text, "\n") {
			fmt.Fprintf(&sb, `<a:p><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, html.EscapeString(para))
		}
		sb.WriteString(`</p:txBody></p:sp>`)
	}
	sb.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return sb.String()
}

// buildPPTX creates a presentation with one slide per entry of slides, in
// order. Slide files are numbered in the same order as the slide list.
func buildPPTX(t *testing.T, slides [][]string) []byte {
	t.Helper()
	order := make([]int, len(slides))
	for i := range order {
		order[i] = i + 1
	}
	return buildPPTXOrdered(t, slides, order)
}

// buildPPTXOrdered creates a presentation whose i-th listed slide is stored
// in ppt/slides/slide<order[i]>.xml.
func buildPPTXOrdered(t *testing.T, slides [][]string, order []int) []byte {
	t.Helper()
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
	}

	var ids, rels strings.Builder
	for i, shapes := range slides {
		rid := fmt.Sprintf("rId%d", i+10)
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
		fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s" Target="slides/slide%d.xml"/>`, rid, relTypeSld, order[i])
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", order[i])] = slideXMLFor(shapes)
	}

	parts["ppt/presentation.xml"] = `<?xml version="1.0" encoding="UTF-8"?><p:presentation ` + nsPresentation +
		`><p:sldIdLst>` + ids.String() + `</p:sldIdLst></p:presentation>`
	parts["ppt/_rels/presentation.xml.rels"] = `<?xml version="1.0" encoding="UTF-8"?><Relationships ` + nsPackage + `>` +
		rels.String() + `</Relationships>`
	return zipParts(t, parts)
}

// buildDOCXBody creates a word document from raw <w:body> content.
func buildDOCXBody(t *testing.T, body string) []byte {
	t.Helper()
	return zipParts(t, map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document ` + nsWord +
			`><w:body>` + body + `<w:sectPr/></w:body></w:document>`,
	})
}

// buildDOCX creates a word document with one single-run paragraph per entry.
func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var sb strings.Builder
	for _, p := range paragraphs {
		if p == "" {
			sb.WriteString(`<w:p/>`)
			continue
		}
		fmt.Fprintf(&sb, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, html.EscapeString(p))
	}
	return buildDOCXBody(t, sb.String())
}

// buildPDF creates a PDF with one page per entry. Empty entries produce pages
// with an empty content stream.
func buildPDF(t *testing.T, pages []string) []byte {
	t.Helper()

	n := len(pages)
	fontObj := 3 + 2*n
	objects := make([]string, fontObj)

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n)

	for i, text := range pages {
		pageObj, contentObj := 3+2*i, 4+2*i
		objects[pageObj-1] = fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontObj, contentObj)

		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		objects[contentObj-1] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)
	}
	objects[fontObj-1] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// sheet describes one worksheet of a generated workbook. A nil cell is left
// unset.
type sheet struct {
	name string
	rows [][]any
}

// buildXLSX creates a workbook with the given sheets in declaration order.
func buildXLSX(t *testing.T, sheets []sheet) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			t.Fatalf("new sheet %s: %v", sh.name, err)
		}

		for r, row := range sh.rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sh.name, cell, v); err != nil {
					t.Fatalf("set %s!%s: %v", sh.name, cell, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}
