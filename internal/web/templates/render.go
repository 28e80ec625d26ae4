// Package templates renders the dashboard HTML as templ components.
package templates

import (
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/jackc/pgx/v5/pgtype"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// text writes s HTML-escaped. Also safe inside quoted attribute values.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// formatPercent renders a usage value for display; missing values show a dash.
func formatPercent(v pgtype.Float8) string {
	if !v.Valid {
		return "–"
	}
	return strconv.FormatFloat(v.Float64, 'f', 1, 64) + "%"
}

var palette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

// colorFor returns a stable color for a service by its option position.
func colorFor(service string, services []string) string {
	for i, s := range services {
		if s == service {
			return palette[i%len(palette)]
		}
	}
	return "#888888"
}
