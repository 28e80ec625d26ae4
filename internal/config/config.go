// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DefaultDatasetPath is the file name of the published KOBACO release.
// Keep in sync with the DATASET_PATH default below.
const DefaultDatasetPath = "한국방송광고진흥공사_성별 연령별 OTT 서비스 이용 비율_20250825.csv"

// DatasetConfig holds the dataset source settings.
type DatasetConfig struct {
	// Path is the CSV, TSV or XLSX file to serve. Ignored when Table is set.
	Path string `env:"DATASET_PATH" envAlt:"DATA_PATH" default:"한국방송광고진흥공사_성별 연령별 OTT 서비스 이용 비율_20250825.csv"`

	// Sheet is the XLSX sheet to read (default: first sheet)
	Sheet string `env:"DATASET_SHEET"`

	// SchemaFile is an optional YAML file overriding column conventions
	SchemaFile string `env:"DATASET_SCHEMA_FILE"`

	// MaxFileSize is the largest dataset file read, in bytes (default: 50MB)
	MaxFileSize int64 `env:"DATASET_MAX_FILE_SIZE" default:"52428800"`

	// Watch invalidates the cache when the file changes on disk (default: true)
	Watch bool `env:"DATASET_WATCH" default:"true"`

	// WatchDebounce batches bursts of file events (default: 500ms)
	WatchDebounce time.Duration `env:"DATASET_WATCH_DEBOUNCE" default:"500ms"`

	// Publisher is credited in the dashboard footer
	Publisher string `env:"DATASET_PUBLISHER" default:"한국방송광고진흥공사"`

	// Table reads the dataset from this database table instead of a file.
	// May be schema-qualified ("public.ott_usage"). Requires DATABASE_URL.
	Table string `env:"DATASET_DB_TABLE"`
}

// Caption is the data source line shown under the dashboard.
func (c *DatasetConfig) Caption() string {
	kind, name := "파일명", filepath.Base(c.Path)
	if c.FromDatabase() {
		kind, name = "테이블", c.Table
	}
	if c.Publisher == "" {
		return fmt.Sprintf("데이터 출처: %s", name)
	}
	return fmt.Sprintf("데이터 출처: %s (%s: %s)", c.Publisher, kind, name)
}

// FromDatabase reports whether the dataset is read from Postgres.
func (c *DatasetConfig) FromDatabase() bool {
	return c.Table != ""
}

// DatabaseConfig holds database connection settings.
// Only used when the dataset is read from a table.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// ExportLimit is requests per minute for export and reload endpoints (default: 10)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api/reload with an API key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
