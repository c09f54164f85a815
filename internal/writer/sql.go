// Package writer emits the SQL seed script. It is the only package that
// knows the target database schema; nothing upstream depends on it.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovniasbl/compta-import/internal/importer"
	"github.com/ovniasbl/compta-import/internal/models"
)

// artistPalette feeds the dashboard's per-artist colors; assignment just
// cycles in name order.
var artistPalette = []string{
	"#6366f1", "#ec4899", "#f59e0b", "#10b981", "#3b82f6",
	"#8b5cf6", "#ef4444", "#14b8a6", "#f97316", "#84cc16",
}

// SQLWriter serializes an import result as an idempotent Postgres seed
// script. Entities are referenced by natural key: every transaction
// resolves its foreign keys through ILIKE subqueries at insert time, so
// the script needs no knowledge of surrogate IDs.
type SQLWriter struct{}

// WriteToFile writes the script to path, creating parent directories.
func (w *SQLWriter) WriteToFile(path string, res *importer.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", path, err)
	}
	defer f.Close()
	return w.Write(f, res)
}

// Write emits the full script: artist inserts, project inserts,
// transaction inserts grouped per owning entity, then a verification
// query for a manual sanity check after running the script.
func (w *SQLWriter) Write(out io.Writer, res *importer.Result) error {
	fmt.Fprintf(out, "-- Import comptabilité O.V.N.I ASBL\n")
	fmt.Fprintf(out, "-- Généré le %s (run %s)\n", time.Now().Format(time.RFC3339), res.RunID)
	fmt.Fprintf(out, "-- %d transactions, %d fichiers. À relire avant application.\n", len(res.Transactions), res.Files)
	fmt.Fprintf(out, "-- Ré-exécutable: tous les INSERT sont protégés par ON CONFLICT DO NOTHING.\n\n")

	artists := sortedKeys(res.Artists)
	projects := sortedKeys(res.Projects)

	fmt.Fprintf(out, "-- Artistes\n")
	for i, name := range artists {
		fmt.Fprintf(out, "INSERT INTO artistes (nom, actif, couleur) VALUES ('%s', true, '%s') ON CONFLICT DO NOTHING;\n",
			escape(name), artistPalette[i%len(artistPalette)])
	}

	fmt.Fprintf(out, "\n-- Projets\n")
	for _, code := range projects {
		fmt.Fprintf(out, "INSERT INTO projets (nom, code, statut) VALUES ('%s', '%s', 'actif') ON CONFLICT DO NOTHING;\n",
			escape(code), escape(code))
	}

	byOwner := groupByOwner(res.Transactions)
	for _, owner := range ownerOrder(artists, projects, byOwner) {
		txs := byOwner[owner]
		totals := sumGroup(txs)
		fmt.Fprintf(out, "\n-- %s (%d lignes, crédit %s, débit %s)\n",
			owner.label(), len(txs), totals.Credit.StringFixed(2), totals.Debit.StringFixed(2))
		for _, tx := range txs {
			if _, err := fmt.Fprintf(out, "%s\n", insertTransaction(tx)); err != nil {
				return fmt.Errorf("write transaction insert: %w", err)
			}
		}
	}

	fmt.Fprintf(out, "\n-- Vérification: à comparer aux compteurs du log d'import\n")
	fmt.Fprintf(out, "SELECT a.nom, COUNT(t.id) AS nb, COALESCE(SUM(t.credit), 0) AS credit, COALESCE(SUM(t.debit), 0) AS debit\n")
	fmt.Fprintf(out, "FROM artistes a LEFT JOIN transactions t ON t.artiste_id = a.id\nGROUP BY a.nom ORDER BY a.nom;\n")
	fmt.Fprintf(out, "SELECT p.code, COUNT(t.id) AS nb\n")
	fmt.Fprintf(out, "FROM projets p LEFT JOIN transactions t ON t.projet_id = p.id\nGROUP BY p.code ORDER BY p.code;\n")
	return nil
}

func insertTransaction(tx models.Transaction) string {
	artistRef := "NULL"
	if tx.Artist != "" {
		artistRef = fmt.Sprintf("(SELECT id FROM artistes WHERE nom ILIKE '%s%%' LIMIT 1)", escape(tx.Artist))
	}
	projectRef := "NULL"
	if tx.Project != "" {
		projectRef = fmt.Sprintf("(SELECT id FROM projets WHERE code ILIKE '%s%%' LIMIT 1)", escape(tx.Project))
	}
	return fmt.Sprintf(
		"INSERT INTO transactions (date, description, credit, debit, artiste_id, projet_id, categorie) "+
			"VALUES ('%s', '%s', %s, %s, %s, %s, '%s') ON CONFLICT DO NOTHING;",
		tx.Date, escape(tx.Description),
		tx.Credit.StringFixed(2), tx.Debit.StringFixed(2),
		artistRef, projectRef, tx.Category,
	)
}

// escape doubles single quotes for SQL string literals.
func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

type owner struct {
	artist  string
	project string
}

func (o owner) label() string {
	switch {
	case o.artist != "":
		return o.artist
	case o.project != "":
		return "Projet " + o.project
	default:
		return "Caisse ASBL"
	}
}

// groupByOwner keys each transaction on its owning entity: the artist
// when present, otherwise the project, otherwise the shared account.
func groupByOwner(txs []models.Transaction) map[owner][]models.Transaction {
	groups := make(map[owner][]models.Transaction)
	for _, tx := range txs {
		var o owner
		if tx.Artist != "" {
			o.artist = tx.Artist
		} else if tx.Project != "" {
			o.project = tx.Project
		}
		groups[o] = append(groups[o], tx)
	}
	return groups
}

func ownerOrder(artists, projects []string, groups map[owner][]models.Transaction) []owner {
	var order []owner
	for _, a := range artists {
		if _, ok := groups[owner{artist: a}]; ok {
			order = append(order, owner{artist: a})
		}
	}
	for _, p := range projects {
		if _, ok := groups[owner{project: p}]; ok {
			order = append(order, owner{project: p})
		}
	}
	if _, ok := groups[owner{}]; ok {
		order = append(order, owner{})
	}
	return order
}

func sumGroup(txs []models.Transaction) models.EntityTotals {
	var t models.EntityTotals
	t.Credit = decimal.Zero
	t.Debit = decimal.Zero
	for _, tx := range txs {
		t.Credit = t.Credit.Add(tx.Credit)
		t.Debit = t.Debit.Add(tx.Debit)
	}
	return t
}

func sortedKeys(m map[string]models.EntityTotals) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
