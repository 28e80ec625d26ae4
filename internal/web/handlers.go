package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/JonMunkholm/ottdash/internal/loader"
	"github.com/JonMunkholm/ottdash/internal/logging"
	"github.com/JonMunkholm/ottdash/internal/web/templates"
)

// handleDashboard renders the dashboard page for the query's selection.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.Dashboard(r.Context(), parseSelection(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.DashboardPage(templates.DashboardParams{
		Dashboard: d,
		Caption:   s.cfg.Dataset.Caption(),
	})
	if err := page.Render(r.Context(), w); err != nil {
		slog.Error("render dashboard", "render_id", d.RenderID, "error", err)
	}
}

// handleDashboardJSON returns one render cycle as JSON.
func (s *Server) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.Dashboard(r.Context(), parseSelection(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, d)
}

// handleOptions returns the selectable filter values.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.Options(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, opts)
}

// RecordsResponse is the body of /api/records.
type RecordsResponse struct {
	Dimension core.Dimension     `json:"dimension"`
	Value     string             `json:"value"`
	Services  []string           `json:"services"`
	Records   []core.Observation `json:"records"`
	Notice    *core.UserMessage  `json:"notice,omitempty"`
}

// handleRecords returns the records of one dimension, optionally narrowed
// to a group value and services. No match is a 200 with a notice.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	dim, ok := core.ParseDimension(strings.ToLower(strings.TrimSpace(q.Get("dimension"))))
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: %q", errInvalidDimension, q.Get("dimension")))
		return
	}

	c := core.Criteria{
		Dimension: dim,
		Value:     strings.TrimSpace(q.Get("value")),
		Services:  parseServices(q["services"]),
	}
	if core.IsAll(c.Value) {
		c.Value = core.AllValue
	}

	records, err := s.service.Records(r.Context(), c)
	resp := RecordsResponse{Dimension: dim, Value: c.Value, Services: c.Services, Records: records}
	if resp.Services == nil {
		resp.Services = []string{}
	}
	switch {
	case errors.Is(err, core.ErrEmptySelection):
		msg := core.MapError(err)
		resp.Notice = &msg
	case err != nil:
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, resp)
}

// LayoutResponse is the body of /api/layout.
type LayoutResponse struct {
	Source   string      `json:"source"`
	Layout   core.Layout `json:"layout"`
	Columns  []string    `json:"columns"`
	Services []string    `json:"services"`
	Rows     int         `json:"rows"`
	Records  int         `json:"records"`
}

// handleLayout reports how the dataset was classified.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.Dataset(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, LayoutResponse{
		Source:   ds.Table.Source(),
		Layout:   ds.Layout,
		Columns:  ds.Table.Columns(),
		Services: ds.Options.Services,
		Rows:     ds.Table.Len(),
		Records:  len(ds.Records),
	})
}

// handleExport streams every record as CSV, in long or wide form.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, core.UserMessage{
			Message: "Unknown export format",
			Action:  "Use format=long or format=wide",
			Code:    "REQ003",
		})
		return
	}

	ds, err := s.service.Dataset(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("ott_usage_%s_%s.csv", format, timestamp)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// BOM so spreadsheet apps detect UTF-8 Hangul.
	if _, err := w.Write([]byte("\ufeff")); err != nil {
		return
	}
	if err := core.WriteCSV(w, ds, format); err != nil {
		slog.Error("export failed", "format", format, "error", err)
	}
}

// handleReload drops the cached table.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	key := s.service.Source().Key()
	logging.WithFields(r.Context(), "source", key).Info("reload requested")
	s.service.Reload()
	writeJSON(w, map[string]string{
		"status": "reloaded",
		"source": key,
	})
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string        `json:"status"`
	Source string        `json:"source"`
	Code   string        `json:"code,omitempty"`
	Cache  *loader.Stats `json:"cache,omitempty"`

	LoadedAt *time.Time `json:"loadedAt,omitempty"` // When the cached table was read
}

// handleHealth reports whether the dataset can be loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Source: s.service.Source().Key()}
	status := http.StatusOK

	if _, err := s.service.Table(r.Context()); err != nil {
		resp.Status = "unavailable"
		resp.Code = core.MapError(err).Code
		status = http.StatusServiceUnavailable
		slog.Warn("health check failed", "source", resp.Source, "error", err)
	}
	if s.cache != nil {
		st := s.cache.Stats()
		resp.Cache = &st
		if at, ok := s.cache.LoadedAt(resp.Source); ok {
			resp.LoadedAt = &at
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
