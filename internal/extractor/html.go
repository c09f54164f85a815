package extractor

import (
	"html"
	"regexp"
	"strings"

	"github.com/ovniasbl/compta-import/internal/models"
)

// HTMLExtractor scans spreadsheet HTML exports for table rows. The inputs
// are trusted exports with a stable enough shape that a regex scan over
// <tr>/<td> blocks is sufficient; it tolerates unclosed formatting tags,
// nested inline markup inside cells, and entity-encoded whitespace.
type HTMLExtractor struct{}

var (
	trPattern  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tdPattern  = regexp.MustCompile(`(?is)<t[dh][^>]*>(.*?)</t[dh]>`)
	tagPattern = regexp.MustCompile(`(?s)<[^>]*>`)
	wsPattern  = regexp.MustCompile(`\s+`)
)

// Rows returns every table row found in the document, including short
// rows with fewer than four cells; those are filtered downstream.
func (e *HTMLExtractor) Rows(name string, data []byte) []models.RawRow {
	var rows []models.RawRow
	for i, tr := range trPattern.FindAllStringSubmatch(string(data), -1) {
		cellMatches := tdPattern.FindAllStringSubmatch(tr[1], -1)
		if cellMatches == nil {
			continue
		}
		cells := make([]string, 0, len(cellMatches))
		for _, td := range cellMatches {
			cells = append(cells, CleanCell(td[1]))
		}
		rows = append(rows, models.RawRow{Cells: cells, File: name, Index: i})
	}
	return rows
}

// CleanCell strips nested tags from a cell's inner HTML, decodes
// entities, and collapses whitespace runs to single spaces.
func CleanCell(inner string) string {
	text := tagPattern.ReplaceAllString(inner, " ")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, " ", " ")
	text = wsPattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
