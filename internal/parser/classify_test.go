package parser

import (
	"testing"

	"github.com/ovniasbl/compta-import/internal/models"
	"github.com/ovniasbl/compta-import/internal/resolver"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultCategoryRules(), resolver.DefaultTable())
}

func TestCategory(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		desc string
		want models.Category
	}{
		{"Paiement SMART novembre", models.CategorySmart},
		{"Thomann câbles", models.CategoryThoman},
		{"Frais Triodos", models.CategoryFraisBancaires},
		{"frais de compte", models.CategoryFraisBancaires},
		{"Loyer studio janvier", models.CategoryLoyer},
		{"Loyer + cachet studio", models.CategoryLoyer}, // loyer checked before cachet
		{"Communa cotisation", models.CategoryLoyer},
		{"Achat matos son", models.CategoryMateriel},
		{"Matériel lumière", models.CategoryMateriel},
		{"Trajet Bruxelles-Liège", models.CategoryDeplacement},
		{"Billet avion Berlin", models.CategoryDeplacement},
		{"Uber retour concert", models.CategoryDeplacement},
		{"Cachet concert Emma", models.CategoryCachet},
		{"Subvention FWB 2024", models.CategorySubvention},
		{"from Caisse ASBL", models.CategoryTransfertInterne},
		{"Virement to Emma", models.CategoryTransfertInterne},
		{"Transfert interne", models.CategoryTransfertInterne},
		{"Courses diverses", models.CategoryAutre},
		{"", models.CategoryAutre},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := c.Category(tt.desc); got != tt.want {
				t.Errorf("Category(%q) = %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

func TestCounterparties(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		desc        string
		wantArtist  string
		wantProject string
	}{
		{"Cachet concert Emma", "Emma", ""},
		{"Remboursement Maïa", "Maïa", ""},
		{"remboursement maia", "Maïa", ""},
		{"Résidence TALU avril", "", "TALU"},
		{"Avance Léa projet LVLR", "Léa", "LVLR"},
		{"Paiement Geoffrey", "Geoffrey", ""},
		// "geo" inside "Geoffrey" must not look like the GEO project
		{"Matériel pour Geoffrey", "Geoffrey", ""},
		{"Défraiement GEO", "", "GEO"},
		{"Courses diverses", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			artist, project := c.Counterparties(tt.desc)
			if artist != tt.wantArtist {
				t.Errorf("artist = %q, want %q", artist, tt.wantArtist)
			}
			if project != tt.wantProject {
				t.Errorf("project = %q, want %q", project, tt.wantProject)
			}
		})
	}
}

func TestCustomRuleOrder(t *testing.T) {
	// precedence is data: swapping the table swaps the winner
	rules := []CategoryRule{
		{Any: []string{"cachet"}, Category: models.CategoryCachet},
		{Any: []string{"loyer"}, Category: models.CategoryLoyer},
	}
	c := NewClassifier(rules, resolver.DefaultTable())
	if got := c.Category("Loyer + cachet studio"); got != models.CategoryCachet {
		t.Errorf("Category = %q, want cachet under reversed rule order", got)
	}
}
