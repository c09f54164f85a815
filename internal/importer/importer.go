// Package importer drives the batch pipeline: resolve each export file,
// extract its rows, normalize and classify them, then deduplicate and
// aggregate across the whole run.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ovniasbl/compta-import/internal/extractor"
	"github.com/ovniasbl/compta-import/internal/models"
	"github.com/ovniasbl/compta-import/internal/parser"
	"github.com/ovniasbl/compta-import/internal/resolver"
)

// Options configures an Importer. Zero-value fields fall back to the
// default keyword tables, so tests can substitute their own.
type Options struct {
	Table       resolver.Table
	Rules       []parser.CategoryRule
	DefaultYear int // 0 means detect per file
	Log         zerolog.Logger
}

// Importer runs the import pipeline. A single Importer is not safe for
// concurrent runs; the batch is strictly sequential by design.
type Importer struct {
	resolver    *resolver.Resolver
	classifier  *parser.Classifier
	defaultYear int
	log         zerolog.Logger
}

func New(opts Options) *Importer {
	table := opts.Table
	if len(table.Artists) == 0 && len(table.Projects) == 0 {
		table = resolver.DefaultTable()
	}
	rules := opts.Rules
	if rules == nil {
		rules = parser.DefaultCategoryRules()
	}
	return &Importer{
		resolver:    resolver.New(table),
		classifier:  parser.NewClassifier(rules, table),
		defaultYear: opts.DefaultYear,
		log:         opts.Log,
	}
}

// Result summarizes one import run.
type Result struct {
	RunID        string
	Files        int // ledger files that contributed transactions
	Skipped      int // ignored files (aggregate/admin sheets)
	Unmapped     int // files matching no artist or project
	DroppedRows  int // rows without a resolvable date or without content
	Transactions []models.Transaction
	Artists      map[string]models.EntityTotals
	Projects     map[string]models.EntityTotals
	// YearSummaries counts data rows per year-summary file, for manual
	// cross-checking only; those rows are never imported.
	YearSummaries map[int]int
	Warnings      []string
}

func newResult() *Result {
	return &Result{
		RunID:         uuid.NewString(),
		Artists:       make(map[string]models.EntityTotals),
		Projects:      make(map[string]models.EntityTotals),
		YearSummaries: make(map[int]int),
	}
}

// Run processes every export file in inputDir. A missing directory is
// the only fatal error; anything wrong with an individual file or row is
// logged and skipped so one bad export never blocks the batch.
func (imp *Importer) Run(ctx context.Context, inputDir string) (*Result, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", inputDir, err)
	}

	res := newResult()
	imp.log.Info().Str("run_id", res.RunID).Str("dir", inputDir).Msg("import run started")

	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".html" && ext != ".htm" && ext != ".pdf" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(inputDir, name))
		if err != nil {
			imp.warnf(res, "read %s: %v", name, err)
			continue
		}
		imp.processFile(res, name, data, models.Source{}, imp.defaultYear)
	}

	imp.finish(res)
	return res, nil
}

// ConvertBytes runs the pipeline for a single in-memory file; the
// conversion API uses it. A non-empty src overrides filename resolution
// and a non-zero year overrides per-file year detection.
func (imp *Importer) ConvertBytes(name string, data []byte, src models.Source, year int) *Result {
	res := newResult()
	if year == 0 {
		year = imp.defaultYear
	}
	imp.processFile(res, name, data, src, year)
	imp.finish(res)
	return res
}

func (imp *Importer) processFile(res *Result, name string, data []byte, src models.Source, year int) {
	if src.Kind == "" {
		src = imp.resolver.Resolve(name)
	}

	switch src.Kind {
	case models.SourceIgnored:
		res.Skipped++
		imp.log.Debug().Str("file", name).Msg("ignored file")
		return
	case models.SourceUnmapped:
		res.Unmapped++
		imp.warnf(res, "unmapped file %s: matches no artist or project", name)
		return
	}

	ext, err := extractor.ForFile(name)
	if err != nil {
		imp.warnf(res, "%s: %v", name, err)
		return
	}
	rows := ext.Rows(name, data)
	if len(rows) == 0 {
		imp.warnf(res, "%s: no table rows found", name)
		return
	}

	if src.Kind == models.SourceYearSummary {
		for _, row := range rows {
			if len(row.Cells) >= 4 {
				res.YearSummaries[src.Year]++
			}
		}
		return
	}

	if year == 0 {
		year = parser.YearContext(rows)
	}

	count := 0
	for _, row := range rows {
		tx, ok := imp.normalizeRow(row, src, year)
		if !ok {
			res.DroppedRows++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
		count++
	}
	res.Files++
	imp.log.Info().Str("file", name).Int("transactions", count).Msg("file processed")
}

func (imp *Importer) normalizeRow(row models.RawRow, src models.Source, year int) (models.Transaction, bool) {
	if len(row.Cells) < 4 {
		return models.Transaction{}, false
	}
	date, ok := parser.ParseDate(row.Cells[0], year)
	if !ok {
		return models.Transaction{}, false
	}

	credit := parser.ParseAmount(row.Cells[1])
	debit := parser.ParseAmount(row.Cells[2])
	// Single-direction row model: a row with both columns filled is a
	// source artifact; the larger side wins.
	if credit.Sign() > 0 && debit.Sign() > 0 {
		if credit.GreaterThanOrEqual(debit) {
			debit = decimal.Zero
		} else {
			credit = decimal.Zero
		}
	}

	desc := parser.CleanDescription(row.Cells[3], credit, debit)
	if credit.IsZero() && debit.IsZero() && strings.TrimSpace(row.Cells[3]) == "" {
		return models.Transaction{}, false
	}

	tx := models.Transaction{
		Date:        date,
		Description: desc,
		Credit:      credit,
		Debit:       debit,
		Category:    imp.classifier.Category(desc),
	}

	artist, project := imp.classifier.Counterparties(desc)
	// A counterparty named in the text wins; the file's own entity is
	// the fallback.
	if artist == "" && src.Kind == models.SourceArtist {
		artist = src.Artist
	}
	if project == "" && src.Kind == models.SourceProject {
		project = src.Project
	}
	tx.Artist = artist
	tx.Project = project
	return tx, true
}

func (imp *Importer) finish(res *Result) {
	res.Transactions = Dedupe(res.Transactions)
	sort.SliceStable(res.Transactions, func(i, j int) bool {
		return res.Transactions[i].Date < res.Transactions[j].Date
	})
	res.Artists, res.Projects = Aggregate(res.Transactions)
	imp.log.Info().
		Str("run_id", res.RunID).
		Int("files", res.Files).
		Int("transactions", len(res.Transactions)).
		Int("unmapped", res.Unmapped).
		Int("dropped_rows", res.DroppedRows).
		Msg("import run finished")
}

func (imp *Importer) warnf(res *Result, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	res.Warnings = append(res.Warnings, msg)
	imp.log.Warn().Msg(msg)
}
