package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/ottdash/internal/config"
)

func echoRemoteAddr() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.RemoteAddr))
	})
}

// ---- TrustedRealIP Tests ----

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "untrusted proxy keeps remote addr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "203.0.113.9:1234",
			headers: map[string]string{"X-Real-IP": "1.1.1.1"},
			want:    "203.0.113.9:1234",
		},
		{
			name:    "trusted proxy uses X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:1234",
			headers: map[string]string{"X-Real-IP": "1.1.1.1"},
			want:    "1.1.1.1",
		},
		{
			name:    "trusted proxy uses first X-Forwarded-For",
			trusted: []string{"10.1.2.3"},
			remote:  "10.1.2.3:1234",
			headers: map[string]string{"X-Forwarded-For": "2.2.2.2, 10.1.2.3"},
			want:    "2.2.2.2",
		},
		{
			name:    "invalid header ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:1234",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "10.1.2.3:1234",
		},
		{
			name:    "no trusted proxies",
			trusted: nil,
			remote:  "10.1.2.3:1234",
			headers: map[string]string{"X-Real-IP": "1.1.1.1"},
			want:    "10.1.2.3:1234",
		},
		{
			name:    "bad CIDR skipped",
			trusted: []string{"garbage", "10.0.0.0/8"},
			remote:  "10.1.2.3:1234",
			headers: map[string]string{"X-Real-IP": "1.1.1.1"},
			want:    "1.1.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := TrustedRealIP(tt.trusted)(echoRemoteAddr())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---- APIKeyAuth Tests ----

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name string
		cfg  config.SecurityConfig
		key  string
		want int
	}{
		{"disabled", config.SecurityConfig{}, "", http.StatusNoContent},
		{"missing key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "", http.StatusUnauthorized},
		{"wrong key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}}, "k2", http.StatusForbidden},
		{"second key", config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}, "k2", http.StatusNoContent},
		{"no keys configured", config.SecurityConfig{RequireAPIKey: true}, "k1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			h := APIKeyAuth(&cfg)(ok)
			req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent {
				return
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["code"] != "AUTH001" {
				t.Errorf("code = %q, want AUTH001", body["code"])
			}
		})
	}
}

// ---- Logger Tests ----

func TestLogger_CapturesStatusAndBytes(t *testing.T) {
	var captured *responseWriter
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	})

	rec := httptest.NewRecorder()
	Logger(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if captured.status != http.StatusTeapot {
		t.Errorf("captured status = %d, want %d", captured.status, http.StatusTeapot)
	}
	if captured.bytes != 5 {
		t.Errorf("captured bytes = %d, want 5", captured.bytes)
	}
	if captured.Unwrap() != rec {
		t.Error("Unwrap did not return the underlying writer")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
		ok     bool
	}{
		{"192.0.2.1:5000", "192.0.2.1", true},
		{"[2001:db8::1]:443", "2001:db8::1", true},
		{"[::ffff:192.0.2.1]:80", "192.0.2.1", true},
		{"192.0.2.1", "192.0.2.1", true},
		{"pipe", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		got, ok := ClientIP(req)
		if ok != tt.ok {
			t.Errorf("ClientIP(%q) ok = %v, want %v", tt.remote, ok, tt.ok)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("ClientIP(%q) = %s, want %s", tt.remote, got, tt.want)
		}
	}
}
