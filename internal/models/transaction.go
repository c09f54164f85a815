package models

import "github.com/shopspring/decimal"

// Category is the closed set of expense/income categories used by the
// O.V.N.I dashboard. Every imported transaction carries exactly one.
type Category string

const (
	CategorySmart            Category = "smart"
	CategoryThoman           Category = "thoman"
	CategoryFraisBancaires   Category = "frais_bancaires"
	CategoryLoyer            Category = "loyer"
	CategoryMateriel         Category = "materiel"
	CategoryDeplacement      Category = "deplacement"
	CategoryCachet           Category = "cachet"
	CategorySubvention       Category = "subvention"
	CategoryTransfertInterne Category = "transfert_interne"
	CategoryAutre            Category = "autre"
)

// RawRow is one table row as extracted from an export file, before any
// interpretation. Cells hold trimmed text in source column order.
type RawRow struct {
	Cells []string
	File  string
	Index int
}

// Transaction is one normalized ledger entry, ready for SQL emission.
// Credit and Debit are always >= 0 and never both positive: the source
// ledgers encode each row as a single direction.
type Transaction struct {
	Date        string          `json:"date"` // ISO YYYY-MM-DD
	Description string          `json:"description"`
	Credit      decimal.Decimal `json:"credit"`
	Debit       decimal.Decimal `json:"debit"`
	Category    Category        `json:"categorie"`
	Artist      string          `json:"artiste,omitempty"` // canonical display name, or ""
	Project     string          `json:"projet,omitempty"`  // project code, or ""
}

// SourceKind classifies an export file by what its filename says it is.
type SourceKind string

const (
	SourceArtist      SourceKind = "artist"
	SourceProject     SourceKind = "project"
	SourceYearSummary SourceKind = "year_summary"
	SourceIgnored     SourceKind = "ignored"
	SourceUnmapped    SourceKind = "unmapped"
)

// Source is the resolved identity of one export file.
type Source struct {
	Kind    SourceKind `json:"kind"`
	Artist  string     `json:"artiste,omitempty"` // canonical display name when Kind == SourceArtist
	Project string     `json:"projet,omitempty"`  // project code when Kind == SourceProject
	Year    int        `json:"annee,omitempty"`   // calendar year when Kind == SourceYearSummary
}

// EntityTotals accumulates per-artist or per-project sums across all
// transactions naturally keyed to that entity.
type EntityTotals struct {
	Credit decimal.Decimal
	Debit  decimal.Decimal
}

// Solde is total credit minus total debit.
func (t EntityTotals) Solde() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}
