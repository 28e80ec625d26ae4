package core

import "strings"

// AllValue is the sentinel users pick to compare every group of a dimension.
const AllValue = "ALL"

// IsAll reports whether a selected group value means "every group".
// Accepts the blank value, ALL in any case, and the Korean 전체.
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllValue) || v == "전체"
}

// Criteria selects records for one chart.
type Criteria struct {
	Dimension Dimension
	Value     string   // Group value, or an IsAll sentinel to skip value matching
	Services  []string // Empty means every service
}

// Filter returns the records matching c, in input order.
//
// With a specific Value only that group passes; with an IsAll value every
// group of the dimension passes. A non-empty Services list further restricts
// by service name. No match yields an empty, non-nil slice.
func Filter(records []Observation, c Criteria) []Observation {
	var services map[string]bool
	if len(c.Services) > 0 {
		services = make(map[string]bool, len(c.Services))
		for _, s := range c.Services {
			services[s] = true
		}
	}

	all := IsAll(c.Value)
	out := make([]Observation, 0)
	for _, r := range records {
		if r.Dimension != c.Dimension {
			continue
		}
		if !all && r.GroupValue != c.Value {
			continue
		}
		if services != nil && !services[r.ServiceName] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DistinctGroupValues returns the group values of a dimension in order of
// first appearance, skipping blanks.
func DistinctGroupValues(records []Observation, d Dimension) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Dimension != d || r.GroupValue == "" || seen[r.GroupValue] {
			continue
		}
		seen[r.GroupValue] = true
		out = append(out, r.GroupValue)
	}
	return out
}
