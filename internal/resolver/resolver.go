// Package resolver classifies export files by filename: each file is an
// artist ledger, a project ledger, a year summary, or not a ledger at all.
package resolver

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"

	"github.com/ovniasbl/compta-import/internal/models"
)

// ArtistKeyword maps a normalized filename fragment to the canonical
// display form of an artist name (accents restored).
type ArtistKeyword struct {
	Fragment  string
	Canonical string
}

// ProjectKeyword maps a normalized filename fragment to a project code.
type ProjectKeyword struct {
	Fragment string
	Code     string
}

// Table holds everything the resolver matches against. Callers can build
// their own (tests do); DefaultTable matches the O.V.N.I export set.
type Table struct {
	// Ignore lists normalized base names that are known aggregate or
	// administrative sheets, never imported as ledgers.
	Ignore []string
	// Artists is checked in order; first fragment found in the
	// normalized base name wins.
	Artists []ArtistKeyword
	// Projects is checked after Artists, except that an exact base-name
	// match against a project code short-circuits the artist check.
	Projects []ProjectKeyword
}

// DefaultTable covers the known O.V.N.I spreadsheet exports.
func DefaultTable() Table {
	return Table{
		Ignore: []string{
			"asbl", "caisse asbl", "divers", "bilan", "bilans",
			"recap", "recapitulatif", "comptes", "totaux",
		},
		Artists: []ArtistKeyword{
			{"geoffrey", "Geoffrey"},
			{"camille", "Camille"},
			{"iris", "Iris"},
			{"emma", "Emma"},
			{"greta", "Greta"},
			{"jul", "Jul"},
			{"lea", "Léa"},
			{"lou", "Lou"},
			{"maia", "Maïa"},
		},
		Projects: []ProjectKeyword{
			{"talu", "TALU"},
			{"lvlr", "LVLR"},
			{"wireless", "WP"},
			{"wp", "WP"},
			{"poema", "POEM"},
			{"poem", "POEM"},
			{"geo", "GEO"},
		},
	}
}

var yearBase = regexp.MustCompile(`^(19|20)\d{2}$`)

// Resolver classifies filenames against an injected Table.
type Resolver struct {
	table Table
}

func New(table Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve maps a filename to its source classification. The match is
// insensitive to case, accents, and Unicode normalization form.
func (r *Resolver) Resolve(filename string) models.Source {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := Fold(base)

	if yearBase.MatchString(name) {
		year := 0
		for _, c := range name {
			year = year*10 + int(c-'0')
		}
		return models.Source{Kind: models.SourceYearSummary, Year: year}
	}

	for _, ig := range r.table.Ignore {
		if name == ig {
			return models.Source{Kind: models.SourceIgnored}
		}
	}

	// Exact base-name match on a project code wins over any broader
	// artist substring: "geo" is the GEO project, not Geoffrey.
	for _, p := range r.table.Projects {
		if name == p.Fragment {
			return models.Source{Kind: models.SourceProject, Project: p.Code}
		}
	}

	for _, a := range r.table.Artists {
		if strings.Contains(name, a.Fragment) {
			return models.Source{Kind: models.SourceArtist, Artist: a.Canonical}
		}
	}

	for _, p := range r.table.Projects {
		// Short codes like "geo" or "wp" only count as standalone
		// words, so "geoffrey" can never look like a project.
		if len(p.Fragment) < 4 {
			if containsWord(name, p.Fragment) {
				return models.Source{Kind: models.SourceProject, Project: p.Code}
			}
			continue
		}
		if strings.Contains(name, p.Fragment) {
			return models.Source{Kind: models.SourceProject, Project: p.Code}
		}
	}

	// Last chance: a single-character typo in an artist name
	// ("Geofrey.html") still maps to the right ledger.
	for _, a := range r.table.Artists {
		if len(a.Fragment) >= 4 && levenshtein.ComputeDistance(name, a.Fragment) == 1 {
			return models.Source{Kind: models.SourceArtist, Artist: a.Canonical}
		}
	}

	return models.Source{Kind: models.SourceUnmapped}
}

// ContainsWord reports whether word appears in s delimited by
// non-alphanumeric characters (or the string edges). s and word are
// expected to be folded already.
func ContainsWord(s, word string) bool {
	return containsWord(s, word)
}

func containsWord(s, word string) bool {
	start := 0
	for {
		i := strings.Index(s[start:], word)
		if i < 0 {
			return false
		}
		i += start
		before := i == 0 || !isWordChar(s[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(s) || !isWordChar(s[afterIdx])
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// Fold normalizes a string for matching: NFD decomposition, combining
// marks stripped, lowercased, surrounding space trimmed.
func Fold(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSpace(b.String())
}
