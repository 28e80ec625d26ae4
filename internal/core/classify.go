package core

// classify.go decides which columns of a loaded table play which role.
//
// Detection runs an ordered list of strategies; the first one that finds all
// of its required columns wins. A strategy that cannot apply reports the
// columns it was missing, and if none applies the caller gets a
// SchemaMismatchError naming every missing column, preferred layout first.

import (
	"strings"

	"github.com/JonMunkholm/ottdash/internal/schema"
	"golang.org/x/text/unicode/norm"
)

// Detection is the typed result of one strategy.
// Exactly one of Layout and Missing is set.
type Detection struct {
	Layout  *Layout
	Missing []MissingColumn
}

// Applies reports whether the strategy found its columns.
func (d Detection) Applies() bool { return d.Layout != nil }

// LayoutStrategy recognizes one source layout from a header row.
type LayoutStrategy interface {
	Name() string
	Detect(columns []string) Detection
}

// DefaultStrategies returns the strategies in priority order: the wide
// per-service release first, then the already-long variant.
func DefaultStrategies(conv schema.Conventions) []LayoutStrategy {
	return []LayoutStrategy{
		WideStrategy{Conv: conv},
		LongStrategy{Keywords: conv.Long},
	}
}

// Classify runs strategies in order and returns the first layout found.
func Classify(columns []string, strategies []LayoutStrategy) (Layout, error) {
	var missing []MissingColumn
	for _, s := range strategies {
		d := s.Detect(columns)
		if d.Applies() {
			return *d.Layout, nil
		}
		missing = append(missing, d.Missing...)
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return Layout{}, &SchemaMismatchError{Columns: cols, Missing: missing}
}

// ClassifyTable classifies a table with the default strategies for conv.
func ClassifyTable(t *Table, conv schema.Conventions) (Layout, error) {
	return Classify(t.Columns(), DefaultStrategies(conv))
}

// WideStrategy recognizes the one-column-per-service layout.
// Group dimension and group value columns are required; year and sample
// count are optional. Every other column is a service column.
type WideStrategy struct {
	Conv schema.Conventions
}

func (WideStrategy) Name() string { return string(LayoutWide) }

func (s WideStrategy) Detect(columns []string) Detection {
	idx := MakeHeaderIndex(columns)
	lookup := func(name string) int {
		if name == "" {
			return -1
		}
		if pos, ok := idx[strings.ToLower(CleanHeader(name))]; ok {
			return pos
		}
		return -1
	}

	layout := Layout{
		Kind:           LayoutWide,
		Strategy:       s.Name(),
		YearCol:        lookup(s.Conv.YearColumn),
		DimensionCol:   lookup(s.Conv.DimensionColumn),
		GroupValueCol:  lookup(s.Conv.GroupValueColumn),
		SampleCountCol: lookup(s.Conv.SampleCountColumn),
		GenderCol:      -1,
		AgeCol:         -1,
		ServiceCol:     -1,
		PercentCol:     -1,
	}

	var missing []MissingColumn
	if layout.DimensionCol < 0 {
		missing = append(missing, MissingColumn{Strategy: s.Name(), Role: "group dimension", Name: s.Conv.DimensionColumn})
	}
	if layout.GroupValueCol < 0 {
		missing = append(missing, MissingColumn{Strategy: s.Name(), Role: "group value", Name: s.Conv.GroupValueColumn})
	}
	if len(missing) > 0 {
		return Detection{Missing: missing}
	}

	reserved := map[int]bool{
		layout.YearCol:        true,
		layout.DimensionCol:   true,
		layout.GroupValueCol:  true,
		layout.SampleCountCol: true,
	}
	for i, c := range columns {
		if reserved[i] || CleanHeader(c) == "" {
			continue
		}
		layout.ServiceCols = append(layout.ServiceCols, i)
	}

	if len(layout.ServiceCols) == 0 {
		return Detection{Missing: []MissingColumn{{Strategy: s.Name(), Role: "service columns", Name: "any non-grouping column"}}}
	}

	return Detection{Layout: &layout}
}

// LongStrategy recognizes a table that already has one row per service,
// locating columns by keyword substring.
type LongStrategy struct {
	Keywords schema.LongKeywords
}

func (LongStrategy) Name() string { return string(LayoutLong) }

func (s LongStrategy) Detect(columns []string) Detection {
	used := make(map[int]bool)
	find := func(keywords []string) int {
		for i, c := range columns {
			if used[i] {
				continue
			}
			if containsAny(c, keywords) {
				used[i] = true
				return i
			}
		}
		return -1
	}

	// Percent before service so "서비스 이용비율" is not taken as the service name.
	layout := Layout{
		Kind:           LayoutLong,
		Strategy:       s.Name(),
		DimensionCol:   -1,
		GroupValueCol:  -1,
		SampleCountCol: -1,
	}
	layout.PercentCol = find(s.Keywords.Percent)
	layout.GenderCol = find(s.Keywords.Gender)
	layout.AgeCol = find(s.Keywords.Age)
	layout.ServiceCol = find(s.Keywords.Service)
	layout.YearCol = find(s.Keywords.Year)

	var missing []MissingColumn
	add := func(pos int, role string, kw []string) {
		if pos < 0 {
			missing = append(missing, MissingColumn{Strategy: s.Name(), Role: role, Name: strings.Join(kw, "|")})
		}
	}
	add(layout.GenderCol, "gender", s.Keywords.Gender)
	add(layout.AgeCol, "age", s.Keywords.Age)
	add(layout.ServiceCol, "service name", s.Keywords.Service)
	add(layout.PercentCol, "usage percent", s.Keywords.Percent)
	if len(missing) > 0 {
		return Detection{Missing: missing}
	}

	return Detection{Layout: &layout}
}

// containsAny reports whether name contains any keyword, case-insensitively.
func containsAny(name string, keywords []string) bool {
	n := strings.ToLower(norm.NFC.String(name))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(n, strings.ToLower(norm.NFC.String(kw))) {
			return true
		}
	}
	return false
}
