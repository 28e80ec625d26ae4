package schema

// Conventions names the columns and labels a dataset is expected to use.
//
// The defaults match the KOBACO "성별 연령별 OTT 서비스 이용 비율" release:
// a wide table keyed by 연도 / 구분1 / 구분2 / 사례수 with one column per
// service. Newer releases ship an already-long table with 서비스명 / 이용비율,
// which LongKeywords describes.
type Conventions struct {
	YearColumn        string `yaml:"year_column"`
	DimensionColumn   string `yaml:"dimension_column"`
	GroupValueColumn  string `yaml:"group_value_column"`
	SampleCountColumn string `yaml:"sample_count_column"`

	// Values of DimensionColumn
	SexLabel string `yaml:"sex_label"`
	AgeLabel string `yaml:"age_label"`

	// AllLabel is both the "no filter" choice shown to users and the
	// total-row marker in long tables.
	AllLabel string `yaml:"all_label"`

	// DefaultServiceCount is how many services are preselected.
	DefaultServiceCount int `yaml:"default_service_count"`

	Long LongKeywords `yaml:"long"`
}

// LongKeywords lists case-insensitive substrings used to find the columns of
// a long-form table. The first column containing any keyword wins.
type LongKeywords struct {
	Gender  []string `yaml:"gender"`
	Age     []string `yaml:"age"`
	Service []string `yaml:"service"`
	Percent []string `yaml:"percent"`
	Year    []string `yaml:"year"`
}

// Default returns the conventions of the published OTT usage dataset.
func Default() Conventions {
	return Conventions{
		YearColumn:          "연도",
		DimensionColumn:     "구분1",
		GroupValueColumn:    "구분2",
		SampleCountColumn:   "사례수",
		SexLabel:            "성별",
		AgeLabel:            "연령별",
		AllLabel:            "전체",
		DefaultServiceCount: 4,
		Long: LongKeywords{
			Gender:  []string{"gender", "sex", "성별"},
			Age:     []string{"age", "연령"},
			Service: []string{"service", "서비스"},
			Percent: []string{"이용비율", "percent", "ratio", "rate", "비율"},
			Year:    []string{"year", "연도"},
		},
	}
}

// NonMeasurement returns the wide-layout columns that never hold service values.
func (c Conventions) NonMeasurement() []string {
	return []string{c.YearColumn, c.DimensionColumn, c.GroupValueColumn, c.SampleCountColumn}
}
