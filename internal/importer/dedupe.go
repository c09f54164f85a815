package importer

import (
	"strings"

	"github.com/ovniasbl/compta-import/internal/models"
)

// descKeyLen is how much of the description participates in the dedup
// key. The same physical transaction often appears in both an artist's
// and a project's ledger with slightly different trailing text; 50
// characters absorbs that while keeping distinct transactions apart.
const descKeyLen = 50

// Dedupe collapses duplicate transactions across overlapping source
// files, keeping the first occurrence. It is idempotent: applying it to
// an already-deduplicated sequence changes nothing.
func Dedupe(txs []models.Transaction) []models.Transaction {
	seen := make(map[string]struct{}, len(txs))
	out := txs[:0:0]
	for _, tx := range txs {
		key := dedupKey(tx)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}
	return out
}

func dedupKey(tx models.Transaction) string {
	desc := tx.Description
	if r := []rune(desc); len(r) > descKeyLen {
		desc = string(r[:descKeyLen])
	}
	var b strings.Builder
	b.WriteString(tx.Date)
	b.WriteByte('|')
	b.WriteString(tx.Credit.String())
	b.WriteByte('|')
	b.WriteString(tx.Debit.String())
	b.WriteByte('|')
	b.WriteString(desc)
	return b.String()
}

// Aggregate computes running totals per artist and per project, keyed by
// the transaction's entity fields rather than by source file.
func Aggregate(txs []models.Transaction) (artists, projects map[string]models.EntityTotals) {
	artists = make(map[string]models.EntityTotals)
	projects = make(map[string]models.EntityTotals)
	for _, tx := range txs {
		if tx.Artist != "" {
			t := artists[tx.Artist]
			t.Credit = t.Credit.Add(tx.Credit)
			t.Debit = t.Debit.Add(tx.Debit)
			artists[tx.Artist] = t
		}
		if tx.Project != "" {
			t := projects[tx.Project]
			t.Credit = t.Credit.Add(tx.Credit)
			t.Debit = t.Debit.Add(tx.Debit)
			projects[tx.Project] = t
		}
	}
	return artists, projects
}
