package core

// view.go runs one render cycle: classify, reshape, filter, summarize.
//
// Each cycle produces a Dashboard with four independent sections. A section
// that matches nothing carries a warning notice instead of records; the other
// sections still render. Only DataUnavailable and SchemaMismatch abort the
// cycle, and they do so before any section is built.

import (
	"fmt"

	"github.com/JonMunkholm/ottdash/internal/schema"
	"github.com/google/uuid"
)

// ChartKind tells the rendering surface which chart to draw.
type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartGroupedBar ChartKind = "grouped_bar"
	ChartLine       ChartKind = "line"
)

// ChartSpec is the field mapping for a chart. Field names refer to the JSON
// names of Observation.
type ChartSpec struct {
	Kind          ChartKind `json:"kind"`
	X             string    `json:"x"`
	Y             string    `json:"y"`
	Color         string    `json:"color"`
	XLabel        string    `json:"xLabel"`
	YLabel        string    `json:"yLabel"`
	CategoryOrder []string  `json:"categoryOrder,omitempty"`
}

// NoticeLevel grades a section notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// Notice replaces a chart when a section has nothing to plot.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
}

// Section is one chart area of the dashboard.
type Section struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Chart   ChartSpec        `json:"chart"`
	Records []Observation    `json:"records"`
	Summary []ServiceSummary `json:"summary,omitempty"`
	Notice  *Notice          `json:"notice,omitempty"`
}

// Empty reports whether the section has no chart to draw.
func (s Section) Empty() bool { return s.Notice != nil }

// Dashboard is the output of one render cycle.
type Dashboard struct {
	RenderID  string        `json:"renderId"`
	Source    string        `json:"source"`
	Layout    Layout        `json:"layout"`
	Options   FilterOptions `json:"options"`
	Selection Selection     `json:"selection"`
	Columns   []string      `json:"columns"`
	Preview   [][]string    `json:"preview"`
	Sections  []Section     `json:"sections"`
}

// Section IDs.
const (
	SectionSexDetail     = "sex-detail"
	SectionAgeDetail     = "age-detail"
	SectionSexComparison = "sex-comparison"
	SectionAgeTrend      = "age-trend"
)

// PreviewRows is how many raw rows the dashboard shows.
const PreviewRows = 5

// Dataset is a classified and reshaped table, ready for filtering.
type Dataset struct {
	Table       *Table
	Layout      Layout
	Records     []Observation
	Options     FilterOptions
	Conventions schema.Conventions
}

// Prepare classifies and reshapes a table.
// Returns a SchemaMismatchError when no layout strategy applies.
func Prepare(t *Table, conv schema.Conventions) (*Dataset, error) {
	if t == nil {
		return nil, NewDataUnavailable("", fmt.Errorf("no table loaded"))
	}

	layout, err := ClassifyTable(t, conv)
	if err != nil {
		return nil, err
	}

	records := Melt(t, layout, conv)
	return &Dataset{
		Table:       t,
		Layout:      layout,
		Records:     records,
		Options:     DeriveOptions(t, layout, records, conv),
		Conventions: conv,
	}, nil
}

// BuildDashboard filters the dataset for sel and assembles every section.
func BuildDashboard(ds *Dataset, sel Selection) Dashboard {
	sel = normalizeSelection(sel, ds.Options)

	d := Dashboard{
		RenderID:  uuid.NewString(),
		Source:    ds.Table.Source(),
		Layout:    ds.Layout,
		Options:   ds.Options,
		Selection: sel,
		Columns:   ds.Table.Columns(),
		Preview:   ds.Table.Head(PreviewRows),
	}

	d.Sections = []Section{
		detailSection(ds, SectionSexDetail, DimensionSex, sel.Sex, sel.Services,
			"성별 기준 OTT 이용 비율", "성별 전체 비교는 아래 '성별 비교' 차트를 확인하세요."),
		detailSection(ds, SectionAgeDetail, DimensionAge, sel.Age, sel.Services,
			"연령대 기준 OTT 이용 비율", "연령대 전체 추세는 아래 '연령대별 추세' 차트를 확인하세요."),
		comparisonSection(ds, SectionSexComparison, DimensionSex, sel.Services, ChartSpec{
			Kind:   ChartGroupedBar,
			X:      "groupValue",
			Y:      "percent",
			Color:  "service",
			XLabel: "성별",
			YLabel: "이용 비율(%)",
		}, "성별 비교"),
		comparisonSection(ds, SectionAgeTrend, DimensionAge, sel.Services, ChartSpec{
			Kind:          ChartLine,
			X:             "groupValue",
			Y:             "percent",
			Color:         "service",
			XLabel:        "연령대",
			YLabel:        "이용 비율(%)",
			CategoryOrder: ds.Options.AgeValues,
		}, "연령대별 추세"),
	}

	return d
}

// FindSection returns the section with the given ID.
func (d Dashboard) FindSection(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

func detailSection(ds *Dataset, id string, dim Dimension, value string, services []string, title, allHint string) Section {
	s := Section{
		ID:    id,
		Title: title,
		Chart: ChartSpec{
			Kind:   ChartBar,
			X:      "service",
			Y:      "percent",
			Color:  "service",
			XLabel: "OTT 서비스",
			YLabel: "이용 비율(%)",
		},
		Records: []Observation{},
	}

	if IsAll(value) {
		s.Notice = &Notice{Level: NoticeInfo, Message: allHint}
		return s
	}

	s.Title = fmt.Sprintf("%s: %s", title, value)
	s.Records = Filter(ds.Records, Criteria{Dimension: dim, Value: value, Services: services})
	if len(s.Records) == 0 {
		s.Notice = emptyNotice()
		return s
	}
	s.Summary = Summarize(s.Records)
	return s
}

func comparisonSection(ds *Dataset, id string, dim Dimension, services []string, chart ChartSpec, title string) Section {
	s := Section{
		ID:      id,
		Title:   title,
		Chart:   chart,
		Records: Filter(ds.Records, Criteria{Dimension: dim, Value: AllValue, Services: services}),
	}
	if len(s.Records) == 0 {
		s.Notice = emptyNotice()
		return s
	}
	s.Summary = Summarize(s.Records)
	return s
}

func emptyNotice() *Notice {
	msg := MapError(ErrEmptySelection)
	return &Notice{Level: NoticeWarning, Message: msg.Message, Code: msg.Code}
}

// normalizeSelection maps All sentinels to AllValue and puts known services
// in option order. Unknown services are kept so they still narrow the result.
// The returned selection never asks for defaults.
func normalizeSelection(sel Selection, opts FilterOptions) Selection {
	out := Selection{Sex: sel.Sex, Age: sel.Age}
	if IsAll(out.Sex) {
		out.Sex = AllValue
	}
	if IsAll(out.Age) {
		out.Age = AllValue
	}
	if sel.DefaultServices {
		out.Services = append([]string{}, opts.DefaultServices...)
		return out
	}
	if len(sel.Services) > 0 {
		out.Services = opts.Selected(sel.Services)
		known := make(map[string]bool, len(out.Services))
		for _, s := range out.Services {
			known[s] = true
		}
		for _, s := range sel.Services {
			if !known[s] {
				known[s] = true
				out.Services = append(out.Services, s)
			}
		}
	} else {
		out.Services = []string{}
	}
	return out
}
