package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JonMunkholm/ottdash/internal/config"
	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/JonMunkholm/ottdash/internal/loader"
	"github.com/JonMunkholm/ottdash/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{"연도", "구분1", "구분2", "사례수", "YouTube", "Netflix", "TVING", "Wavve", "Disney+"}

var testRows = [][]string{
	{"2023", "전체", "전체", "6000", "79.8", "42.6", "22.6", "9.9", "5.5"},
	{"2023", "성별", "남성", "3000", "80.1", "40.2", "20.0", "10.5", "5.1"},
	{"2023", "성별", "여성", "3000", "79.5", "45.0", "25.3", "N/A", "6.0"},
	{"2023", "연령별", "20대", "1000", "92.3", "60.1", "35.2", "12.0", "9.8"},
	{"2023", "연령별", "13-19세", "800", "95.0", "55.4", "30.1", "8.2", "11.0"},
}

// memSource serves a fixed table, or err when set.
type memSource struct {
	header []string
	rows   [][]string
	err    error
}

func (m *memSource) Key() string { return "mem:test" }

func (m *memSource) Fingerprint(context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "v1", nil
}

func (m *memSource) Read(context.Context) (*core.Table, error) {
	if m.err != nil {
		return nil, m.err
	}
	return core.NewTable(m.Key(), m.header, m.rows)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: 5 * time.Second,
		},
		Dataset:  config.DatasetConfig{Path: "/data/ott.csv", Publisher: "한국방송광고진흥공사"},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

func newTestServer(t *testing.T, src core.Source, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	l := loader.New()
	svc, err := core.NewService(l, src, schema.Default())
	require.NoError(t, err)
	s := NewServer(svc, cfg, l)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func defaultServer(t *testing.T) *Server {
	return newTestServer(t, &memSource{header: testHeader, rows: testRows}, nil)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_StartAfterShutdown(t *testing.T) {
	s := defaultServer(t)
	require.NoError(t, s.Shutdown(context.Background()))

	assert.ErrorIs(t, s.Start(), http.ErrServerClosed)
}

// ---- Middleware Tests ----

func TestSecurityHeaders(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/healthz")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestSecurityHeaders_CSPDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableCSP = false
	s := newTestServer(t, &memSource{header: testHeader, rows: testRows}, cfg)

	rec := get(t, s, "/healthz")
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	assert.True(t, rl.allow("1.2.3.4"))
	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"))
	assert.True(t, rl.allow("5.6.7.8"), "limits are per IP")
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := newRateLimiter(1, 20*time.Millisecond)
	defer rl.stop()

	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.allow("1.2.3.4"))
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	rl.stop()
	rl.stop()
}

func TestServer_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ExportLimit: 1}
	s := newTestServer(t, &memSource{header: testHeader, rows: testRows}, cfg)

	rec := get(t, s, "/api/export")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, s, "/api/export")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE001")

	// The general limit is separate.
	rec = get(t, s, "/api/options")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ---- Error Mapping Tests ----

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"data unavailable", core.NewDataUnavailable("x", errors.New("boom")), http.StatusServiceUnavailable},
		{"schema mismatch", &core.SchemaMismatchError{}, http.StatusUnprocessableEntity},
		{"invalid dimension", errInvalidDimension, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, wantsJSON(req))

	req.Header.Set("Accept", "application/json")
	assert.True(t, wantsJSON(req))

	req = httptest.NewRequest(http.MethodGet, "/api/options", nil)
	assert.True(t, wantsJSON(req))
}
