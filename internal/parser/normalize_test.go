package parser

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ovniasbl/compta-import/internal/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		defaultYear int
		want        string
		wantOK      bool
	}{
		{"day month only uses context year", "05/03", 2024, "2024-03-05", true},
		{"single digit day month", "5/3", 2024, "2024-03-05", true},
		{"two digit year", "05/03/24", 2020, "2024-03-05", true},
		{"four digit year", "05/03/2023", 2020, "2023-03-05", true},
		{"us style leak with day over twelve", "1/23/2026", 2020, "2026-01-23", true},
		{"day over twelve in day position", "23/1/2026", 2020, "2026-01-23", true},
		{"total line rejected", "Total", 2024, "", false},
		{"cloture rejected with accent", "Clôture 2023", 2024, "", false},
		{"report rejected", "report solde", 2024, "", false},
		{"month out of range", "13/13/2024", 2024, "", false},
		{"day out of range", "32/01/2024", 2024, "", false},
		{"zero day", "0/05/2024", 2024, "", false},
		{"not a date", "Cachet concert", 2024, "", false},
		{"empty", "", 2024, "", false},
		{"three digit year", "05/03/202", 2024, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, tt.defaultYear)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"150,00", "150"},
		{"150.00", "150"},
		{"1 250,50 €", "1250.5"},
		{"1.250,50", "1250.5"},
		{"-45.00", "45"},
		{"€ 30", "30"},
		{" 1 000,00", "1000"},
		{"", "0"},
		{"-", "0"},
		{"n/a", "0"},
		{"abc", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseAmount(tt.raw)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got, want)
			}
			if got.Sign() < 0 {
				t.Errorf("ParseAmount(%q) is negative", tt.raw)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	long := make([]rune, 600)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name   string
		raw    string
		credit string
		debit  string
		want   string
	}{
		{"plain", "Cachet concert", "150", "0", "Cachet concert"},
		{"empty with credit", "", "150", "0", "Entrée"},
		{"empty with debit", "", "0", "45", "Sortie"},
		{"empty with nothing", "", "0", "0", ""},
		{"trimmed", "  concert  ", "0", "45", "concert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanDescription(tt.raw,
				decimal.RequireFromString(tt.credit), decimal.RequireFromString(tt.debit))
			if got != tt.want {
				t.Errorf("CleanDescription(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}

	t.Run("capped at 500 runes", func(t *testing.T) {
		got := CleanDescription(string(long), decimal.Zero, decimal.RequireFromString("1"))
		if n := len([]rune(got)); n != 500 {
			t.Errorf("length = %d, want 500", n)
		}
	})
}

func TestYearContext(t *testing.T) {
	rows := []models.RawRow{
		{Cells: []string{"Compte Emma 2024", "", "", ""}},
		{Cells: []string{"Date", "Crédit", "Débit", "Description"}},
	}
	if got := YearContext(rows); got != 2024 {
		t.Errorf("YearContext = %d, want 2024", got)
	}

	// no token: current year fallback, just check it is plausible
	none := []models.RawRow{{Cells: []string{"Date", "Crédit", "Débit", "Description"}}}
	if got := YearContext(none); got < 2020 {
		t.Errorf("YearContext fallback = %d", got)
	}
}
