// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// extractDOCX returns the non-blank body paragraphs separated by blank lines.
func extractDOCX(content []byte) (string, error) {
	pkg, err := openPackage(content)
	if err != nil {
		return "", err
	}

	data, err := pkg.read(documentPart)
	if err != nil {
		return "", fmt.Errorf("not a word document: %w", err)
	}

	paragraphs, err := bodyParagraphs(data)
	if err != nil {
		return "", err
	}

	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return joinBlocks(kept), nil
}

// bodyParagraphs returns the text of every <w:p> that is a direct child of
// <w:body>, in document order. Paragraphs nested in text boxes or tables are
// not body paragraphs and are skipped.
func bodyParagraphs(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		stack      []string
		paragraphs []string
		sb         strings.Builder
		inPara     bool
		paraDepth  int
		nested     int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name.Local)

			switch {
			case !inPara:
				if t.Name.Local == "p" && parent == "body" {
					inPara = true
					paraDepth = len(stack)
					sb.Reset()
				}
			case nested > 0:
				if t.Name.Local == "p" {
					nested++
				}
			case t.Name.Local == "p":
				nested++
			case parent == "r":
				writeRunElement(&sb, t)
			}

		case xml.EndElement:
			if inPara {
				switch {
				case nested > 0 && t.Name.Local == "p":
					nested--
				case len(stack) == paraDepth:
					inPara = false
					paragraphs = append(paragraphs, sb.String())
				}
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			n := len(stack)
			if inPara && nested == 0 && n >= 2 && stack[n-1] == "t" && stack[n-2] == "r" {
				sb.Write(t)
			}
		}
	}

	return paragraphs, nil
}

// writeRunElement renders the non-text run children that carry characters.
func writeRunElement(sb *strings.Builder, el xml.StartElement) {
	switch el.Name.Local {
	case "tab", "ptab":
		sb.WriteByte('\t')
	case "cr":
		sb.WriteByte('\n')
	case "noBreakHyphen":
		sb.WriteByte('-')
	case "br":
		for _, a := range el.Attr {
			if a.Name.Local == "type" && a.Value != "textWrapping" {
				return
			}
		}
		sb.WriteByte('\n')
	}
}
