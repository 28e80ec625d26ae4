package web

// handlers_common.go holds the query parsing shared by the page and API handlers.

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/ottdash/internal/core"
)

// parseSelection reads sex, age and services from the query.
//
// A request without any services parameter asks for the default services.
// A services parameter that is present but empty means every service, which
// is how the form reports "nothing checked".
func parseSelection(r *http.Request) core.Selection {
	q := r.URL.Query()
	sel := core.Selection{
		Sex: strings.TrimSpace(q.Get("sex")),
		Age: strings.TrimSpace(q.Get("age")),
	}

	raw, present := q["services"]
	if !present {
		sel.DefaultServices = true
		return sel
	}
	sel.Services = parseServices(raw)
	if sel.Services == nil {
		sel.Services = []string{}
	}
	return sel
}

// parseServices accepts repeated and comma-separated values, dropping blanks
// and duplicates. Returns nil when nothing is left.
func parseServices(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}
