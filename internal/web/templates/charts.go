package templates

import (
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/a-h/templ"
)

// field returns the Observation value named by a ChartSpec field.
func field(o core.Observation, name string) string {
	switch name {
	case "service":
		return o.ServiceName
	case "groupValue":
		return o.GroupValue
	case "year":
		return o.Year
	case "dimensionLabel":
		return o.DimensionLabel
	default:
		return ""
	}
}

// yearSpan reports whether records cover more than one year, and the
// latest year label.
func yearSpan(records []core.Observation) (multi bool, latest string) {
	for _, r := range records {
		if r.Year == "" {
			continue
		}
		if latest != "" && r.Year != latest {
			multi = true
		}
		if r.Year > latest {
			latest = r.Year
		}
	}
	return multi, latest
}

// seriesName is the field value, qualified by year when a chart mixes years.
func seriesName(o core.Observation, name string, multi bool) string {
	s := field(o, name)
	if multi && o.Year != "" && name != "year" {
		s += " (" + o.Year + ")"
	}
	return s
}

func maxPercent(records []core.Observation) float64 {
	m := 0.0
	for _, r := range records {
		if r.HasValue() && r.Percent.Float64 > m {
			m = r.Percent.Float64
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

func width(v, max float64) string {
	return strconv.FormatFloat(math.Min(100, v/max*100), 'f', 1, 64)
}

func renderBar(h *htmlWriter, label string, o core.Observation, max float64, color string) {
	h.raw(`<div class="bar-row"><span class="bar-label">`)
	h.text(label)
	h.raw(`</span><span class="bar-track">`)
	if o.HasValue() {
		h.rawf(`<span class="bar" style="width:%s%%;background:%s"></span>`, width(o.Percent.Float64, max), color)
	}
	h.raw(`</span><span class="bar-value">`)
	h.text(formatPercent(o.Percent))
	h.raw(`</span></div>`)
}

func renderAxisLabels(h *htmlWriter, spec core.ChartSpec) {
	h.raw(`<p class="axis">`)
	h.text(spec.XLabel)
	h.raw(` / `)
	h.text(spec.YLabel)
	h.raw(`</p>`)
}

func renderBarChart(h *htmlWriter, sec core.Section, services []string) {
	max := maxPercent(sec.Records)
	multi, _ := yearSpan(sec.Records)
	h.raw(`<div class="chart chart-bar">`)
	for _, r := range sec.Records {
		renderBar(h, seriesName(r, sec.Chart.X, multi), r, max, colorFor(field(r, sec.Chart.Color), services))
	}
	renderAxisLabels(h, sec.Chart)
	h.raw(`</div>`)
}

func renderGroupedBarChart(h *htmlWriter, sec core.Section, services []string) {
	var groups []string
	byGroup := make(map[string][]core.Observation)
	for _, r := range sec.Records {
		g := field(r, sec.Chart.X)
		if _, ok := byGroup[g]; !ok {
			groups = append(groups, g)
		}
		byGroup[g] = append(byGroup[g], r)
	}

	max := maxPercent(sec.Records)
	multi, _ := yearSpan(sec.Records)
	h.raw(`<div class="chart chart-grouped">`)
	for _, g := range groups {
		h.raw(`<div class="bar-group"><h3>`)
		h.text(g)
		h.raw(`</h3>`)
		for _, r := range byGroup[g] {
			renderBar(h, seriesName(r, sec.Chart.Color, multi), r, max, colorFor(field(r, sec.Chart.Color), services))
		}
		h.raw(`</div>`)
	}
	renderAxisLabels(h, sec.Chart)
	h.raw(`</div>`)
}

const (
	svgWidth  = 640
	svgHeight = 280
	svgPad    = 40
)

func renderLineChart(h *htmlWriter, sec core.Section, services []string) {
	present := make(map[string]bool)
	for _, r := range sec.Records {
		present[field(r, sec.Chart.X)] = true
	}
	var categories []string
	for _, c := range sec.Chart.CategoryOrder {
		if present[c] {
			categories = append(categories, c)
			delete(present, c)
		}
	}
	// Categories missing from the order go last, in record order.
	for _, r := range sec.Records {
		if c := field(r, sec.Chart.X); present[c] {
			categories = append(categories, c)
			delete(present, c)
		}
	}

	pos := make(map[string]int, len(categories))
	for i, c := range categories {
		pos[c] = i
	}

	max := math.Ceil(maxPercent(sec.Records)/10) * 10
	step := 0.0
	if len(categories) > 1 {
		step = float64(svgWidth-2*svgPad) / float64(len(categories)-1)
	}
	x := func(i int) float64 { return svgPad + float64(i)*step }
	y := func(v float64) float64 { return svgHeight - svgPad - v/max*float64(svgHeight-2*svgPad) }

	// One series per color value and year, so earlier years are not
	// overwritten by later ones at the same category.
	multi, latest := yearSpan(sec.Records)
	var seriesOrder []string
	points := make(map[string][]core.Observation)
	for _, r := range sec.Records {
		s := seriesName(r, sec.Chart.Color, multi)
		if _, ok := points[s]; !ok {
			seriesOrder = append(seriesOrder, s)
		}
		points[s] = append(points[s], r)
	}

	h.rawf(`<div class="chart chart-line"><svg viewBox="0 0 %d %d" role="img" aria-label="`, svgWidth, svgHeight)
	h.text(sec.Title)
	h.raw(`">`)
	h.rawf(`<line class="axis-line" x1="%d" y1="%d" x2="%d" y2="%d"/>`, svgPad, svgHeight-svgPad, svgWidth-svgPad, svgHeight-svgPad)
	for i, c := range categories {
		h.rawf(`<text class="tick" x="%.1f" y="%d" text-anchor="middle">`, x(i), svgHeight-svgPad+18)
		h.text(c)
		h.raw(`</text>`)
	}

	for _, s := range seriesOrder {
		obs := points[s]
		color := colorFor(field(obs[0], sec.Chart.Color), services)
		dash := ""
		if multi && obs[0].Year != latest {
			dash = ` stroke-dasharray="6 4"`
		}
		var segment []string
		flush := func() {
			if len(segment) > 1 {
				h.rawf(`<polyline fill="none" stroke="%s" stroke-width="2"%s points="%s"/>`, color, dash, strings.Join(segment, " "))
			}
			segment = segment[:0]
		}
		byPos := make(map[int]core.Observation, len(obs))
		for _, o := range obs {
			byPos[pos[field(o, sec.Chart.X)]] = o
		}
		for i := range categories {
			o, ok := byPos[i]
			if !ok || !o.HasValue() {
				flush()
				continue
			}
			px, py := x(i), y(o.Percent.Float64)
			segment = append(segment, strconv.FormatFloat(px, 'f', 1, 64)+","+strconv.FormatFloat(py, 'f', 1, 64))
			h.rawf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"><title>`, px, py, color)
			h.text(s + " " + categories[i] + ": " + formatPercent(o.Percent))
			h.raw(`</title></circle>`)
		}
		flush()
	}
	h.raw(`</svg>`)

	h.raw(`<ul class="legend">`)
	for _, s := range seriesOrder {
		color := colorFor(field(points[s][0], sec.Chart.Color), services)
		h.rawf(`<li><span class="swatch" style="background:%s"></span>%s</li>`, color, templ.EscapeString(s))
	}
	h.raw(`</ul>`)
	renderAxisLabels(h, sec.Chart)
	h.raw(`</div>`)
}
