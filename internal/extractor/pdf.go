package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/ovniasbl/compta-import/internal/models"
)

// PDFExtractor handles ledger tabs exported to PDF instead of HTML.
// PDF text carries no cell markup, so each line becomes a row and cells
// are split on tab stops or runs of two or more spaces. Image-based or
// unreadably encoded PDFs yield zero rows.
type PDFExtractor struct{}

var cellGapPattern = regexp.MustCompile(`\t+| {2,}`)

func (e *PDFExtractor) Rows(name string, data []byte) []models.RawRow {
	pages, err := extractPDFText(data)
	if err != nil || !isReadableText(pages) {
		return nil
	}

	var rows []models.RawRow
	index := 0
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			parts := cellGapPattern.Split(line, -1)
			cells := make([]string, 0, len(parts))
			for _, p := range parts {
				cells = append(cells, strings.TrimSpace(p))
			}
			rows = append(rows, models.RawRow{Cells: cells, File: name, Index: index})
			index++
		}
	}
	return rows
}

func extractPDFText(data []byte) (pages []string, err error) {
	// the pdf library panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf parse crashed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// isReadableText guards against garbage from custom font encodings: if
// less than half of the extracted characters are plain text, the
// extraction is considered failed rather than passed downstream.
func isReadableText(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"€+%&", r)) {
				readable++
			} else if r == 'é' || r == 'è' || r == 'à' || r == 'ç' || r == 'ï' || r == 'ô' || r == 'û' {
				readable++
			}
		}
	}
	if total == 0 {
		return false
	}
	return float64(readable)/float64(total) >= 0.5
}
