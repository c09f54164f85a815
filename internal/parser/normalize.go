// Package parser converts raw cell text into typed values and infers
// categories and counterparties from free-text descriptions.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovniasbl/compta-import/internal/models"
	"github.com/ovniasbl/compta-import/internal/resolver"
)

var (
	datePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?$`)
	yearToken   = regexp.MustCompile(`\b(20\d{2})\b`)
	amountJunk  = regexp.MustCompile(`[^0-9.+-]`)
)

// Lines starting with these markers are totals or carry-overs, not
// transactions. Matched on the folded form, so "Clôture" is covered.
var closingPrefixes = []string{"total", "cloture", "report"}

const maxDescriptionLen = 500

// YearContext scans the first rows of a file for a 4-digit year token
// and returns it as the default year for dates written without one.
// Falls back to the current calendar year.
func YearContext(rows []models.RawRow) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for _, row := range rows[:limit] {
		for _, cell := range row.Cells {
			if m := yearToken.FindString(cell); m != "" {
				y, _ := strconv.Atoi(m)
				return y
			}
		}
	}
	return time.Now().Year()
}

// ParseDate normalizes a raw date cell to ISO YYYY-MM-DD.
// Accepted forms: DD/MM (year from context), DD/MM/YY (2000+YY),
// DD/MM/YYYY, and MM/DD/YYYY when the second number cannot be a month.
// Returns ok=false for totals/closing lines and anything out of range.
func ParseDate(raw string, defaultYear int) (string, bool) {
	s := resolver.Fold(raw)
	if s == "" {
		return "", false
	}
	for _, prefix := range closingPrefixes {
		if strings.HasPrefix(s, prefix) {
			return "", false
		}
	}

	m := datePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	// US-style leak: "1/23/2026" cannot be day=1 month=23.
	if month > 12 && day <= 12 {
		day, month = month, day
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}

	year := defaultYear
	switch len(m[3]) {
	case 0:
		// keep context year
	case 2:
		y, _ := strconv.Atoi(m[3])
		year = 2000 + y
	case 4:
		year, _ = strconv.Atoi(m[3])
	default:
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// ParseAmount converts a locale-formatted amount cell ("1 250,50 €",
// "-45.00") to a non-negative decimal. The sheets sometimes encode
// debits as negative; direction is carried by the credit/debit columns,
// never by sign, so the absolute value is taken. Malformed amounts are
// treated as absent and parse to zero.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	for _, sym := range []string{"€", "$", "£", "EUR", "eur"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = amountJunk.ReplaceAllString(s, "")
	// "1.250.50" after comma conversion: keep only the last dot as the
	// decimal separator.
	if strings.Count(s, ".") > 1 {
		last := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
	}
	if s == "" || s == "-" || s == "+" || s == "." {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// CleanDescription trims and caps a description cell. Direction decides
// the placeholder for empty descriptions on rows that still carry an
// amount: "Entrée" for credits, "Sortie" for debits.
func CleanDescription(raw string, credit, debit decimal.Decimal) string {
	s := strings.TrimSpace(raw)
	if r := []rune(s); len(r) > maxDescriptionLen {
		s = string(r[:maxDescriptionLen])
	}
	if s == "" {
		if credit.Sign() > 0 {
			return "Entrée"
		}
		if debit.Sign() > 0 {
			return "Sortie"
		}
	}
	return s
}
