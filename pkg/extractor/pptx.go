// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const presentationPart = "ppt/presentation.xml"

type presentationXML struct {
	SlideIDs []struct {
		Attrs []xml.Attr `xml:",any,attr"`
	} `xml:"sldIdLst>sldId"`
}

type slideXML struct {
	Shapes []shapeXML `xml:"cSld>spTree>sp"`
}

type shapeXML struct {
	TxBody *struct {
		Paragraphs []drawingParagraphXML `xml:"p"`
	} `xml:"txBody"`
}

// drawingParagraphXML keeps the children of <a:p> in document order so runs,
// fields and line breaks interleave correctly.
type drawingParagraphXML struct {
	Children []struct {
		XMLName xml.Name
		Text    string `xml:"t"`
	} `xml:",any"`
}

func (sp shapeXML) text() string {
	if sp.TxBody == nil {
		return ""
	}
	paragraphs := make([]string, 0, len(sp.TxBody.Paragraphs))
	for _, p := range sp.TxBody.Paragraphs {
		var sb strings.Builder
		for _, c := range p.Children {
			switch c.XMLName.Local {
			case "r", "fld":
				sb.WriteString(c.Text)
			case "br":
				sb.WriteString("\n")
			}
		}
		paragraphs = append(paragraphs, sb.String())
	}
	return strings.Join(paragraphs, "\n")
}

// extractPPTX emits one "[Slide n]" block per slide that has shape text.
func extractPPTX(content []byte) (string, error) {
	pkg, err := openPackage(content)
	if err != nil {
		return "", err
	}

	parts, err := slideParts(pkg)
	if err != nil {
		return "", err
	}

	var blocks []string
	for i, part := range parts {
		var slide slideXML
		if err := pkg.decode(part, &slide); err != nil {
			return "", err
		}

		var lines []string
		for _, sp := range slide.Shapes {
			if text := strings.TrimSpace(sp.text()); text != "" {
				lines = append(lines, text)
			}
		}
		if len(lines) == 0 {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[Slide %d]\n%s", i+1, strings.Join(lines, "\n")))
	}

	return joinBlocks(blocks), nil
}

// slideParts returns slide part names in presentation order. The order comes
// from the slide id list; numbered slide file names are used when the list
// cannot be resolved.
func slideParts(pkg *ooxmlPackage) ([]string, error) {
	if !pkg.has(presentationPart) {
		return nil, fmt.Errorf("not a presentation: %s missing", presentationPart)
	}

	var pres presentationXML
	if err := pkg.decode(presentationPart, &pres); err != nil {
		return nil, err
	}

	if rels, err := pkg.relationships(presentationPart); err == nil && len(pres.SlideIDs) > 0 {
		parts := make([]string, 0, len(pres.SlideIDs))
		for _, sld := range pres.SlideIDs {
			target, ok := rels[relationshipID(sld.Attrs)]
			if !ok || !pkg.has(target) {
				parts = nil
				break
			}
			parts = append(parts, target)
		}
		if parts != nil {
			return parts, nil
		}
	}

	return numberedSlideParts(pkg), nil
}

// relationshipID returns the namespaced r:id attribute of a slide id entry.
func relationshipID(attrs []xml.Attr) string {
	for _, a := range attrs {
		if a.Name.Local == "id" && a.Name.Space != "" {
			return a.Value
		}
	}
	return ""
}

func numberedSlideParts(pkg *ooxmlPackage) []string {
	type numbered struct {
		name string
		n    int
	}
	var slides []numbered
	for name := range pkg.files {
		rest, ok := strings.CutPrefix(name, "ppt/slides/slide")
		if !ok {
			continue
		}
		rest, ok = strings.CutSuffix(rest, ".xml")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		slides = append(slides, numbered{name: name, n: n})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	parts := make([]string, len(slides))
	for i, s := range slides {
		parts[i] = s.name
	}
	return parts
}
