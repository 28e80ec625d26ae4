package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ---- Selection Parsing Tests ----

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  core.Selection
	}{
		{
			name:  "no services parameter uses defaults",
			query: "sex=남성&age=20대",
			want:  core.Selection{Sex: "남성", Age: "20대", DefaultServices: true},
		},
		{
			name:  "empty services parameter means all",
			query: "services=",
			want:  core.Selection{Services: []string{}},
		},
		{
			name:  "repeated and comma separated",
			query: "services=Netflix&services=TVING,%20Wavve&services=Netflix",
			want:  core.Selection{Services: []string{"Netflix", "TVING", "Wavve"}},
		},
		{
			name:  "form with hidden empty value",
			query: "sex=ALL&services=&services=YouTube",
			want:  core.Selection{Sex: "ALL", Services: []string{"YouTube"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, parseSelection(req))
		})
	}
}

// ---- Page Tests ----

func TestHandleDashboard(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/?sex=%EB%82%A8%EC%84%B1&age=20%EB%8C%80")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "성별 기준 OTT 이용 비율: 남성")
	assert.Contains(t, body, "연령대 기준 OTT 이용 비율: 20대")
	assert.Contains(t, body, "데이터 출처: 한국방송광고진흥공사 (파일명: ott.csv)")
	// Four default services are preselected.
	assert.Contains(t, body, `value="Wavve" checked>`)
	assert.NotContains(t, body, `value="Disney+" checked>`)
}

func TestHandleDashboard_DataUnavailable(t *testing.T) {
	s := newTestServer(t, &memSource{err: errors.New("open /data/ott.csv: no such file or directory")}, nil)
	rec := get(t, s, "/")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "대시보드를 표시할 수 없습니다")
	assert.Contains(t, rec.Body.String(), "DATA001")
	assert.NotContains(t, rec.Body.String(), "/data/ott.csv")
}

func TestHandleDashboard_SchemaMismatch(t *testing.T) {
	s := newTestServer(t, &memSource{header: []string{"a", "b"}, rows: [][]string{{"1", "2"}}}, nil)
	rec := get(t, s, "/")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), `class="alert alert-error"`)
	assert.Contains(t, rec.Body.String(), "SCH001")
}

func TestStaticFiles(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/static/app.css")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".sidebar")
}

// ---- API Tests ----

func TestHandleOptions(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/options")

	require.Equal(t, http.StatusOK, rec.Code)
	opts := decode[core.FilterOptions](t, rec)
	assert.Equal(t, []string{"남성", "여성"}, opts.SexValues)
	assert.Equal(t, []string{"13-19세", "20대"}, opts.AgeValues)
	assert.Equal(t, []string{"YouTube", "Netflix", "TVING", "Wavve", "Disney+"}, opts.Services)
}

func TestHandleDashboardJSON(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/dashboard?sex=ALL&age=ALL&services=")

	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[core.Dashboard](t, rec)
	assert.NotEmpty(t, d.RenderID)
	assert.Equal(t, []string{}, d.Selection.Services)
	require.Len(t, d.Sections, 4)

	sec, ok := d.FindSection(core.SectionSexComparison)
	require.True(t, ok)
	assert.Len(t, sec.Records, 10)
}

func TestHandleDashboardJSON_SchemaMismatch(t *testing.T) {
	s := newTestServer(t, &memSource{header: []string{"a", "b"}, rows: [][]string{{"1", "2"}}}, nil)
	rec := get(t, s, "/api/dashboard")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "SCH001", resp.Code)
	assert.NotEmpty(t, resp.Action)
}

func TestHandleRecords(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/records?dimension=sex&value=%EC%97%AC%EC%84%B1&services=Wavve,Netflix")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RecordsResponse](t, rec)
	assert.Nil(t, resp.Notice)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "Netflix", resp.Records[0].ServiceName)
	assert.Equal(t, "Wavve", resp.Records[1].ServiceName)
	assert.False(t, resp.Records[1].HasValue())
}

func TestHandleRecords_AllGroupsAllServices(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/records?dimension=age")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RecordsResponse](t, rec)
	assert.Equal(t, core.AllValue, resp.Value)
	assert.Equal(t, []string{}, resp.Services)
	assert.Len(t, resp.Records, 10)
}

func TestHandleRecords_Empty(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/records?dimension=sex&value=%EB%82%A8%EC%84%B1&services=Nope")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RecordsResponse](t, rec)
	assert.Empty(t, resp.Records)
	require.NotNil(t, resp.Notice)
	assert.Equal(t, "SEL001", resp.Notice.Code)
}

func TestHandleRecords_InvalidDimension(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/records?dimension=region")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SEL002", decode[ErrorResponse](t, rec).Code)
}

func TestHandleLayout(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/layout")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LayoutResponse](t, rec)
	assert.Equal(t, core.LayoutWide, resp.Layout.Kind)
	assert.Equal(t, []int{4, 5, 6, 7, 8}, resp.Layout.ServiceCols)
	assert.Equal(t, 5, resp.Rows)
	assert.Equal(t, 25, resp.Records)
}

func TestHandleExport_Long(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/export?format=long")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ott_usage_long_")

	body := strings.TrimPrefix(rec.Body.String(), "\ufeff")
	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 26)
	assert.Equal(t, []string{"year", "dimension", "dimension_label", "group_value", "service", "percent", "sample_count"}, rows[0])
	assert.Equal(t, []string{"2023", "other", "전체", "전체", "YouTube", "79.8", "6000"}, rows[1])
	// 여성 / Wavve is N/A in the source.
	assert.Equal(t, []string{"2023", "sex", "성별", "여성", "Wavve", "", "3000"}, rows[14])
}

func TestHandleExport_Wide(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/export?format=wide")

	require.Equal(t, http.StatusOK, rec.Code)
	body := strings.TrimPrefix(rec.Body.String(), "\ufeff")
	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"연도", "구분1", "구분2", "사례수", "YouTube", "Netflix", "TVING", "Wavve", "Disney+"}, rows[0])
	assert.Equal(t, []string{"2023", "성별", "남성", "3000", "80.1", "40.2", "20", "10.5", "5.1"}, rows[2])
}

func TestHandleExport_BadFormat(t *testing.T) {
	s := defaultServer(t)
	rec := get(t, s, "/api/export?format=xml")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQ003", decode[ErrorResponse](t, rec).Code)
}

func TestHandleReload(t *testing.T) {
	s := defaultServer(t)
	require.Equal(t, http.StatusOK, get(t, s, "/api/options").Code)

	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reloaded", decode[map[string]string](t, rec)["status"])
	assert.Equal(t, 0, s.cache.Stats().Entries)
}

func TestHandleReload_RequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	s := newTestServer(t, &memSource{header: testHeader, rows: testRows}, cfg)

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusForbidden},
		{"valid", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				assert.Equal(t, "AUTH001", decode[ErrorResponse](t, rec).Code)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := defaultServer(t)
	get(t, s, "/healthz")
	rec := get(t, s, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "mem:test", resp.Source)
	require.NotNil(t, resp.Cache)
	assert.Equal(t, int64(1), resp.Cache.Hits)
	assert.Equal(t, int64(1), resp.Cache.Misses)
	require.NotNil(t, resp.LoadedAt)
	assert.WithinDuration(t, time.Now(), *resp.LoadedAt, time.Minute)
}

func TestHandleHealth_Unavailable(t *testing.T) {
	s := newTestServer(t, &memSource{err: errors.New("connection refused")}, nil)
	rec := get(t, s, "/healthz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "DATA001", resp.Code)
	assert.Nil(t, resp.LoadedAt)
}
