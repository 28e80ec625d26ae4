package core

import (
	"github.com/montanaflynn/stats"
)

// ServiceSummary holds descriptive statistics of one service's usage
// across the groups in a record subset. Missing cells are excluded and
// counted separately.
type ServiceSummary struct {
	Service string  `json:"service"`
	Groups  int     `json:"groups"`  // Records with a value
	Missing int     `json:"missing"` // Records without a value
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"stdDev"`
}

// Summarize computes per-service statistics in order of first appearance.
// Services whose every cell is missing are reported with Groups == 0.
func Summarize(records []Observation) []ServiceSummary {
	values := make(map[string]stats.Float64Data)
	missing := make(map[string]int)
	order := ServiceNames(records)

	for _, r := range records {
		if !r.HasValue() {
			missing[r.ServiceName]++
			continue
		}
		values[r.ServiceName] = append(values[r.ServiceName], r.Percent.Float64)
	}

	out := make([]ServiceSummary, 0, len(order))
	for _, svc := range order {
		data := values[svc]
		s := ServiceSummary{
			Service: svc,
			Groups:  data.Len(),
			Missing: missing[svc],
		}
		if data.Len() > 0 {
			// Errors only occur on empty input, ruled out above.
			s.Mean, _ = data.Mean()
			s.Median, _ = data.Median()
			s.Min, _ = data.Min()
			s.Max, _ = data.Max()
			s.StdDev, _ = data.StandardDeviationPopulation()
		}
		out = append(out, s)
	}
	return out
}
