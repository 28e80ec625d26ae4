package core

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Dimension identifies which grouping axis an observation belongs to.
type Dimension string

const (
	DimensionSex   Dimension = "sex"
	DimensionAge   Dimension = "age"
	DimensionOther Dimension = "other"
)

// ParseDimension converts a query-string value to a Dimension.
// Returns false for anything other than sex, age or other.
func ParseDimension(s string) (Dimension, bool) {
	switch Dimension(s) {
	case DimensionSex, DimensionAge, DimensionOther:
		return Dimension(s), true
	default:
		return "", false
	}
}

// Observation is one long-form record: a single usage percentage for one
// service within one group.
type Observation struct {
	Year           string        `json:"year,omitempty"`
	Dimension      Dimension     `json:"dimension"`
	DimensionLabel string        `json:"dimensionLabel"` // Raw label from the source ("성별", "연령별")
	GroupValue     string        `json:"groupValue"`
	ServiceName    string        `json:"service"`
	Percent        pgtype.Float8 `json:"percent"` // Valid=false marks a missing cell
	SampleCount    pgtype.Int8   `json:"sampleCount"` // Respondents in the group; Valid=false when absent
}

// HasValue reports whether the observation carries a usable percentage.
func (o Observation) HasValue() bool {
	return o.Percent.Valid
}

// LayoutKind names the source shape a table was classified as.
type LayoutKind string

const (
	LayoutWide LayoutKind = "wide"
	LayoutLong LayoutKind = "long"
)

// Layout is the classifier's verdict: which column plays which role.
// Column positions index into Table.Columns.
type Layout struct {
	Kind     LayoutKind `json:"kind"`
	Strategy string     `json:"strategy"`

	// Wide layout
	YearCol        int   `json:"yearCol"` // -1 when absent
	DimensionCol   int   `json:"dimensionCol"`
	GroupValueCol  int   `json:"groupValueCol"`
	SampleCountCol int   `json:"sampleCountCol"` // -1 when absent
	ServiceCols    []int `json:"serviceCols"`

	// Long layout
	GenderCol  int `json:"genderCol"`
	AgeCol     int `json:"ageCol"`
	ServiceCol int `json:"serviceCol"`
	PercentCol int `json:"percentCol"`
}

// HeaderIndex maps cleaned, lowercased column names to their position.
type HeaderIndex map[string]int

// Selection is the user's filter choice for one render cycle.
// Built fresh from request input and never stored.
type Selection struct {
	Sex      string   `json:"sex"`
	Age      string   `json:"age"`
	Services []string `json:"services"`

	// DefaultServices replaces Services with the dataset's preselected
	// services. Set when the user has not made a service choice yet.
	DefaultServices bool `json:"-"`
}

// FilterOptions lists the selectable values derived from a dataset.
type FilterOptions struct {
	SexValues       []string `json:"sexValues"`
	AgeValues       []string `json:"ageValues"`
	SexChoices      []string `json:"sexChoices"` // All sentinel + SexValues
	AgeChoices      []string `json:"ageChoices"` // All sentinel + AgeValues
	Services        []string `json:"services"`
	DefaultServices []string `json:"defaultServices"`
}
