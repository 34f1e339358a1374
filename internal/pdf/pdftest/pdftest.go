package pdftest

// Package pdftest builds small but structurally valid PDF documents for
// tests. Cross-reference offsets are computed from the actual byte positions
// so the output parses with strict readers.

import (
	"fmt"
	"strings"
)

// Document returns a complete single- or multi-page PDF. Each entry in
// pageTexts becomes one page showing that text with the standard Helvetica
// font. An empty string produces a page whose content stream draws nothing,
// mimicking an image-only scan.
func Document(pageTexts ...string) []byte {
	if len(pageTexts) == 0 {
		pageTexts = []string{""}
	}

	var buf strings.Builder
	offsets := make([]int, 0, 4+2*len(pageTexts))

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		// Object layout: 1 catalog, 2 pages, 3 font, then page/content pairs.
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), len(pageTexts)))
	writeObj("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	for i, text := range pageTexts {
		pageNum := 4 + 2*i
		contentNum := pageNum + 1

		writeObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n",
			pageNum, contentNum))

		stream := "0 0 m\n"
		if text != "" {
			stream = fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n(%s) Tj\nET\n", escape(text))
		}
		writeObj(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%sendstream\nendobj\n",
			contentNum, len(stream), stream))
	}

	xrefPos := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefPos))

	return []byte(buf.String())
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}
