package parser

import (
	"strings"

	"github.com/ovniasbl/compta-import/internal/models"
	"github.com/ovniasbl/compta-import/internal/resolver"
)

// CategoryRule is one entry of the ordered first-match-wins table.
// A rule matches when every keyword in All is present and, if Any is
// non-empty, at least one of Any is present. Matching is done on the
// folded description, so accents and case never matter.
type CategoryRule struct {
	Any      []string
	All      []string
	Category models.Category
}

func (r CategoryRule) matches(folded string) bool {
	for _, kw := range r.All {
		if !strings.Contains(folded, kw) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return len(r.All) > 0
	}
	for _, kw := range r.Any {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// DefaultCategoryRules is the canonical precedence order. The two
// historical import scripts disagreed on parts of this order; this table
// is the single source of truth now. Notably loyer is checked before
// cachet, so "Loyer + cachet studio" files under loyer.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Any: []string{"smart"}, Category: models.CategorySmart},
		{Any: []string{"thoman"}, Category: models.CategoryThoman},
		{Any: []string{"triodos"}, Category: models.CategoryFraisBancaires},
		{All: []string{"frais"}, Any: []string{"banc", "bank", "compte"}, Category: models.CategoryFraisBancaires},
		{Any: []string{"loyer", "communa"}, Category: models.CategoryLoyer},
		{Any: []string{"matos", "materiel"}, Category: models.CategoryMateriel},
		{Any: []string{"trajet", "deplacement", "avion", "train", "uber"}, Category: models.CategoryDeplacement},
		{Any: []string{"cachet"}, Category: models.CategoryCachet},
		{Any: []string{"subvention", "sub"}, Category: models.CategorySubvention},
		{Any: []string{"from ", "to ", "transfert"}, Category: models.CategoryTransfertInterne},
	}
}

// Classifier infers category and counterparty entities from description
// text, using the same keyword tables the filename resolver uses.
type Classifier struct {
	rules []CategoryRule
	table resolver.Table
}

func NewClassifier(rules []CategoryRule, table resolver.Table) *Classifier {
	return &Classifier{rules: rules, table: table}
}

// Category returns the first matching rule's category, or autre.
func (c *Classifier) Category(description string) models.Category {
	folded := resolver.Fold(description)
	for _, rule := range c.rules {
		if rule.matches(folded) {
			return rule.Category
		}
	}
	return models.CategoryAutre
}

// Counterparties scans the description for artist names and project
// codes. Short project codes (under four characters) must appear as a
// standalone word: "geo" inside "Geoffrey" is not the GEO project.
func (c *Classifier) Counterparties(description string) (artist, project string) {
	folded := resolver.Fold(description)
	for _, a := range c.table.Artists {
		if strings.Contains(folded, a.Fragment) {
			artist = a.Canonical
			break
		}
	}
	for _, p := range c.table.Projects {
		if len(p.Fragment) < 4 {
			if resolver.ContainsWord(folded, p.Fragment) {
				project = p.Code
				break
			}
			continue
		}
		if strings.Contains(folded, p.Fragment) {
			project = p.Code
			break
		}
	}
	return artist, project
}
