package core

// convert.go turns raw dataset cells into typed values.
//
// Published statistics files are messy:
//   - Thousand separators and trailing percent signs in numbers
//   - Placeholders for suppressed cells ("-", "N/A", "…")
//   - Excel formula prefixes (="value")
//   - Header names saved in decomposed Unicode by some editors
//
// ParsePercent is total: it never returns an error. Anything that is not a
// usable non-negative number comes back as pgtype.Float8{Valid: false}.

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/text/unicode/norm"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParsePercent converts a cell to a usage percentage.
// Returns an invalid Float8 for empty, placeholder, negative, or non-numeric input.
func ParsePercent(s string) pgtype.Float8 {
	s = CleanCell(s)
	if s == "" {
		return pgtype.Float8{Valid: false}
	}

	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return pgtype.Float8{Valid: false}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return pgtype.Float8{Valid: false}
	}

	return pgtype.Float8{Float64: f, Valid: true}
}

// ParseCount converts a sample-count cell to an integer.
// Returns invalid for anything that is not a non-negative whole number.
func ParseCount(s string) pgtype.Int8 {
	f := ParsePercent(s)
	if !f.Valid || f.Float64 != math.Trunc(f.Float64) {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: int64(f.Float64), Valid: true}
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// CleanHeader cleans a header cell and normalizes it to NFC so that
// "연도" typed on one system matches "연도" saved by another.
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return norm.NFC.String(CleanCell(s))
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanHeader(h))
		if _, dup := idx[key]; dup {
			continue // First occurrence wins
		}
		idx[key] = i
	}
	return idx
}
