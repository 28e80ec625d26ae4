package core

import (
	"sort"

	"github.com/JonMunkholm/ottdash/internal/schema"
)

// DeriveOptions builds the selectable filter values for a dataset.
//
// Sex values are sorted lexically, age values by AgeSortKey. A dataset with
// no rows for a dimension yields an empty list for it, not an error.
// Services keep source order; the first conv.DefaultServiceCount are
// preselected.
func DeriveOptions(t *Table, layout Layout, records []Observation, conv schema.Conventions) FilterOptions {
	sexValues := DistinctGroupValues(records, DimensionSex)
	sort.Strings(sexValues)

	ageValues := SortAgeLabels(DistinctGroupValues(records, DimensionAge))

	var services []string
	if layout.Kind == LayoutWide {
		columns := t.Columns()
		for _, c := range layout.ServiceCols {
			services = append(services, columns[c])
		}
	} else {
		services = ServiceNames(records)
	}

	n := conv.DefaultServiceCount
	if n > len(services) {
		n = len(services)
	}

	all := conv.AllLabel
	if all == "" {
		all = AllValue
	}

	return FilterOptions{
		SexValues:       nonNil(sexValues),
		AgeValues:       nonNil(ageValues),
		SexChoices:      append([]string{all}, sexValues...),
		AgeChoices:      append([]string{all}, ageValues...),
		Services:        nonNil(services),
		DefaultServices: append([]string{}, services[:n]...),
	}
}

// Selected reports which of opts.Services are in sel, preserving option order.
func (o FilterOptions) Selected(sel []string) []string {
	want := make(map[string]bool, len(sel))
	for _, s := range sel {
		want[s] = true
	}
	out := make([]string, 0, len(sel))
	for _, s := range o.Services {
		if want[s] {
			out = append(out, s)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
