// Package logging configures log/slog for the dashboard server and CLI.
//
// Loggers taken from a request context carry chi's request_id, so the
// dataset load, the render cycle and the access log line of one page view
// can be joined. Loggers for a dataset carry its source key.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup installs the server's default logger on stdout.
//
// Level is one of debug, info, warn or error (default info). Format is
// "json" for log shippers; anything else gives slog's text format.
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger writing to w. ottctl passes stderr so exported CSV
// and tables on stdout are never interleaved with log lines.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns the default logger, tagged with the request ID when
// ctx belongs to an HTTP request.
//
//	logging.FromContext(r.Context()).Info("records requested", "dimension", dim)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields is FromContext plus extra attributes.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

// ForSource returns a logger for work on one dataset source. A cache fill
// started by a page view keeps that view's request_id.
//
//	logging.ForSource(ctx, src.Key()).Info("dataset loaded", "rows", t.Len())
func ForSource(ctx context.Context, key string) *slog.Logger {
	return WithFields(ctx, "source", key)
}
