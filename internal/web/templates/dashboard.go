package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/a-h/templ"
)

// DashboardParams holds everything the dashboard page shows.
type DashboardParams struct {
	Dashboard core.Dashboard
	Caption   string // Data source line in the footer
}

// DashboardPage renders the full dashboard document.
func DashboardPage(p DashboardParams) templ.Component {
	return Page("OTT 이용 비율 (성별·연령별)", Dashboard(p))
}

// Dashboard renders the page body: filters, preview and the four sections.
func Dashboard(p DashboardParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		d := p.Dashboard
		h := &htmlWriter{w: w}

		h.raw(`<header class="page-header"><h1>📊 성별 / 연령대별 OTT 서비스 이용 비율</h1></header>`)
		h.rawf(`<div class="layout" data-render-id="%s">`, templ.EscapeString(d.RenderID))

		renderFilters(h, d)

		h.raw(`<main class="content">`)
		renderPreview(h, d)

		var comparisons []core.Section
		for _, sec := range d.Sections {
			if sec.ID == core.SectionSexComparison || sec.ID == core.SectionAgeTrend {
				comparisons = append(comparisons, sec)
				continue
			}
			renderSection(h, sec, d.Options.Services)
		}
		if len(comparisons) > 0 {
			h.raw(`<hr><div class="grid-2">`)
			for _, sec := range comparisons {
				renderSection(h, sec, d.Options.Services)
			}
			h.raw(`</div>`)
		}
		h.raw(`</main></div>`)

		if p.Caption != "" {
			h.raw(`<footer class="page-footer"><p class="caption">`)
			h.text(p.Caption)
			h.raw(`</p></footer>`)
		}
		return h.err
	})
}

func renderFilters(h *htmlWriter, d core.Dashboard) {
	h.raw(`<aside class="sidebar"><h2>필터 옵션</h2><form method="get" action="/">`)

	renderSelect(h, "sex", "성별 선택", d.Options.SexChoices, d.Selection.Sex)
	renderSelect(h, "age", "연령대 선택", d.Options.AgeChoices, d.Selection.Age)

	selected := make(map[string]bool, len(d.Selection.Services))
	for _, s := range d.Selection.Services {
		selected[s] = true
	}

	h.raw(`<fieldset class="services"><legend>표시할 OTT 서비스 (최대 10개 권장)</legend>`)
	// The empty value keeps the parameter present when nothing is checked,
	// which selects every service instead of the defaults.
	h.raw(`<input type="hidden" name="services" value="">`)
	for _, svc := range d.Options.Services {
		h.raw(`<label class="checkbox"><input type="checkbox" name="services" value="`)
		h.text(svc)
		h.raw(`"`)
		if selected[svc] {
			h.raw(` checked`)
		}
		h.raw(`> `)
		h.text(svc)
		h.raw(`</label>`)
	}
	h.raw(`<p class="hint">선택하지 않으면 모든 서비스를 표시합니다.</p></fieldset>`)

	h.raw(`<button type="submit">적용</button></form>`)
	h.raw(`<ul class="downloads"><li><a href="/api/export?format=long">CSV 내보내기 (long)</a></li>`)
	h.raw(`<li><a href="/api/export?format=wide">CSV 내보내기 (wide)</a></li></ul></aside>`)
}

func renderSelect(h *htmlWriter, name, label string, choices []string, current string) {
	h.rawf(`<label class="select">%s<select name="%s">`, templ.EscapeString(label), name)
	for _, c := range choices {
		h.raw(`<option value="`)
		h.text(c)
		h.raw(`"`)
		if c == current || (core.IsAll(c) && core.IsAll(current)) {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(c)
		h.raw(`</option>`)
	}
	h.raw(`</select></label>`)
}

func renderPreview(h *htmlWriter, d core.Dashboard) {
	h.raw(`<section class="preview"><h2>데이터 미리보기</h2><div class="table-scroll"><table><thead><tr>`)
	for _, c := range d.Columns {
		h.raw(`<th>`)
		h.text(c)
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)
	for _, row := range d.Preview {
		h.raw(`<tr>`)
		for _, cell := range row {
			h.raw(`<td>`)
			h.text(cell)
			h.raw(`</td>`)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table></div>`)
	h.rawf(`<p class="meta">레이아웃: %s</p></section>`, templ.EscapeString(string(d.Layout.Kind)))
}

func renderSection(h *htmlWriter, sec core.Section, services []string) {
	h.rawf(`<section class="chart-section" id="%s"><h2>`, templ.EscapeString(sec.ID))
	h.text(sec.Title)
	h.raw(`</h2>`)

	if sec.Notice != nil {
		h.rawf(`<div class="notice notice-%s">`, templ.EscapeString(string(sec.Notice.Level)))
		h.text(sec.Notice.Message)
		if sec.Notice.Code != "" {
			h.raw(` <code>`)
			h.text(sec.Notice.Code)
			h.raw(`</code>`)
		}
		h.raw(`</div></section>`)
		return
	}

	switch sec.Chart.Kind {
	case core.ChartLine:
		renderLineChart(h, sec, services)
	case core.ChartGroupedBar:
		renderGroupedBarChart(h, sec, services)
	default:
		renderBarChart(h, sec, services)
	}
	renderSummary(h, sec.Summary)
	h.raw(`</section>`)
}

func renderSummary(h *htmlWriter, summary []core.ServiceSummary) {
	if len(summary) == 0 {
		return
	}
	h.raw(`<details class="summary"><summary>요약 통계</summary><table><thead><tr>`)
	h.raw(`<th>OTT 서비스</th><th>그룹 수</th><th>평균</th><th>중앙값</th><th>최소</th><th>최대</th></tr></thead><tbody>`)
	for _, s := range summary {
		h.raw(`<tr><td>`)
		h.text(s.Service)
		h.rawf(`</td><td>%d</td>`, s.Groups)
		if s.Groups == 0 {
			h.raw(`<td>–</td><td>–</td><td>–</td><td>–</td></tr>`)
			continue
		}
		for _, v := range []float64{s.Mean, s.Median, s.Min, s.Max} {
			h.rawf(`<td>%s</td>`, strconv.FormatFloat(v, 'f', 1, 64))
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table></details>`)
}
