// Package export converts a final summary into downloadable artifacts.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Fixed artifact names offered for download.
const (
	TextFilename = "summary.txt"
	PDFFilename  = "summary.pdf"
)

// Page geometry, in points on a Letter page (612x792). The first baseline
// sits 42pt from the top and a new page starts once the cursor passes the
// 40pt bottom margin. Lines are placed as-is; there is no wrapping.
const (
	leftMargin   = 40.0
	topMargin    = 42.0
	bottomMargin = 40.0
	lineHeight   = 14.4
	fontSize     = 12.0
)

// Text returns the summary as verbatim UTF-8 bytes.
func Text(summary string) []byte {
	return []byte(summary)
}

// PDF lays the summary's lines onto fixed-size pages and returns the document
// bytes together with the page count. Output is deterministic for identical
// input: the creation date is pinned.
func PDF(summary string) ([]byte, int, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCreationDate(time.Unix(0, 0).UTC())
	doc.SetMargins(leftMargin, topMargin, leftMargin)
	doc.SetAutoPageBreak(true, bottomMargin)
	doc.SetFont("Helvetica", "", fontSize)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, line := range strings.Split(summary, "\n") {
		doc.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}

	pages := doc.PageCount()
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), pages, nil
}
