package core

// reshape.go converts tables between wide and long form.
//
// Melt output order is fixed: input row order, and within a wide row the
// services in header order. Chart legends are built from this order, so it
// must not depend on map iteration.

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/ottdash/internal/schema"
)

// Melt converts a classified table into long-form observations.
//
// For a wide layout it emits len(rows) × len(ServiceCols) records. For a long
// layout it emits one record per row. Cells that are not usable numbers
// become missing values; Melt itself cannot fail.
func Melt(t *Table, layout Layout, conv schema.Conventions) []Observation {
	switch layout.Kind {
	case LayoutLong:
		return meltLong(t, layout, conv)
	default:
		return meltWide(t, layout, conv)
	}
}

func meltWide(t *Table, layout Layout, conv schema.Conventions) []Observation {
	columns := t.Columns()
	out := make([]Observation, 0, t.Len()*len(layout.ServiceCols))

	for i := 0; i < t.Len(); i++ {
		year := cellOrEmpty(t, i, layout.YearCol)
		dimLabel := t.Cell(i, layout.DimensionCol)
		dim := dimensionFor(dimLabel, conv)
		value := t.Cell(i, layout.GroupValueCol)
		count := ParseCount(cellOrEmpty(t, i, layout.SampleCountCol))

		for _, col := range layout.ServiceCols {
			out = append(out, Observation{
				Year:           year,
				Dimension:      dim,
				DimensionLabel: dimLabel,
				GroupValue:     value,
				ServiceName:    columns[col],
				Percent:        ParsePercent(t.Cell(i, col)),
				SampleCount:    count,
			})
		}
	}

	return out
}

func meltLong(t *Table, layout Layout, conv schema.Conventions) []Observation {
	out := make([]Observation, 0, t.Len())

	for i := 0; i < t.Len(); i++ {
		gender := t.Cell(i, layout.GenderCol)
		age := t.Cell(i, layout.AgeCol)

		obs := Observation{
			Year:        cellOrEmpty(t, i, layout.YearCol),
			ServiceName: t.Cell(i, layout.ServiceCol),
			Percent:     ParsePercent(t.Cell(i, layout.PercentCol)),
			SampleCount: ParseCount(cellOrEmpty(t, i, layout.SampleCountCol)),
		}

		genderAll := isTotal(gender, conv)
		ageAll := isTotal(age, conv)
		switch {
		case !genderAll && ageAll:
			obs.Dimension, obs.DimensionLabel, obs.GroupValue = DimensionSex, conv.SexLabel, gender
		case genderAll && !ageAll:
			obs.Dimension, obs.DimensionLabel, obs.GroupValue = DimensionAge, conv.AgeLabel, age
		case !genderAll && !ageAll:
			obs.Dimension, obs.DimensionLabel, obs.GroupValue = DimensionOther, "", gender+" / "+age
		default:
			obs.Dimension, obs.DimensionLabel, obs.GroupValue = DimensionOther, "", conv.AllLabel
		}

		out = append(out, obs)
	}

	return out
}

// dimensionFor maps a raw group-dimension label to a Dimension.
func dimensionFor(label string, conv schema.Conventions) Dimension {
	switch strings.TrimSpace(label) {
	case conv.SexLabel:
		return DimensionSex
	case conv.AgeLabel:
		return DimensionAge
	default:
		return DimensionOther
	}
}

// isTotal reports whether a long-table cell means "every group".
func isTotal(v string, conv schema.Conventions) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == conv.AllLabel || strings.EqualFold(v, "all") || strings.EqualFold(v, "total")
}

func cellOrEmpty(t *Table, row, col int) string {
	if col < 0 {
		return ""
	}
	return t.Cell(row, col)
}

// WideRow is one reconstructed row of a wide table.
type WideRow struct {
	Year           string
	DimensionLabel string
	GroupValue     string
	SampleCount    pgtype.Int8
	Values         map[string]Observation // Keyed by service name
}

// Pivot folds observations back into wide rows, one per
// (year, dimension label, group value) tuple in order of first appearance.
// Only the listed services are kept; a nil list keeps every service.
func Pivot(records []Observation, services []string) []WideRow {
	var keep map[string]bool
	if services != nil {
		keep = make(map[string]bool, len(services))
		for _, s := range services {
			keep[s] = true
		}
	}

	type key struct{ year, dim, value string }
	pos := make(map[key]int)
	var rows []WideRow

	for _, r := range records {
		if keep != nil && !keep[r.ServiceName] {
			continue
		}
		label := r.DimensionLabel
		if label == "" {
			label = string(r.Dimension)
		}
		k := key{r.Year, label, r.GroupValue}
		i, ok := pos[k]
		if !ok {
			i = len(rows)
			pos[k] = i
			rows = append(rows, WideRow{
				Year:           r.Year,
				DimensionLabel: label,
				GroupValue:     r.GroupValue,
				SampleCount:    r.SampleCount,
				Values:         make(map[string]Observation),
			})
		}
		rows[i].Values[r.ServiceName] = r
	}

	return rows
}

// ServiceNames returns distinct service names in order of first appearance.
func ServiceNames(records []Observation) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.ServiceName] {
			seen[r.ServiceName] = true
			out = append(out, r.ServiceName)
		}
	}
	return out
}
