// Package extractor turns export file contents into raw table rows.
// It does structural parsing only; semantic validation happens downstream.
package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ovniasbl/compta-import/internal/models"
)

// RowSource extracts raw rows from one export file's bytes. A file that
// has no recognizable table yields zero rows, never an error that would
// abort the batch.
type RowSource interface {
	Rows(name string, data []byte) []models.RawRow
}

// ForFile picks an extractor by file extension.
func ForFile(name string) (RowSource, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}
