package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/ottdash/internal/config"
	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/JonMunkholm/ottdash/internal/loader"
	"github.com/JonMunkholm/ottdash/internal/logging"
	"github.com/JonMunkholm/ottdash/internal/schema"
	"github.com/JonMunkholm/ottdash/internal/source"
	"github.com/JonMunkholm/ottdash/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(context.Background()))
}

// run starts the server and blocks until ctx is cancelled or a signal
// arrives. It returns the process exit code after every deferred cleanup
// has run.
func run(parent context.Context) int {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset", cfg.Dataset.Path,
		"db_table", cfg.Dataset.Table,
		"watch", cfg.Dataset.Watch,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	conv := schema.Default()
	if cfg.Dataset.SchemaFile != "" {
		conv, err = schema.LoadFile(cfg.Dataset.SchemaFile)
		if err != nil {
			slog.Error("failed to load schema file", "error", err)
			return 1
		}
		slog.Info("schema conventions loaded", "file", cfg.Dataset.SchemaFile)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var src core.Source
	if cfg.Dataset.FromDatabase() {
		pool, err := connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			return 1
		}
		defer pool.Close()
		src = &source.Postgres{DB: pool, Table: cfg.Dataset.Table}
	} else {
		src, err = source.Open(cfg.Dataset.Path, source.Options{
			Sheet:       cfg.Dataset.Sheet,
			MaxFileSize: cfg.Dataset.MaxFileSize,
		})
		if err != nil {
			slog.Error("failed to open dataset", "path", cfg.Dataset.Path, "error", err)
			return 1
		}
	}

	cache := loader.New()
	service, err := core.NewService(cache, src, conv)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		return 1
	}

	// A missing file is not fatal: the dashboard shows the error until it appears.
	if _, err := service.Table(ctx); err != nil {
		slog.Warn("dataset not loaded at startup", "source", src.Key(), "error", err)
	}

	if cfg.Dataset.Watch && !cfg.Dataset.FromDatabase() {
		w, err := loader.NewWatcher(cfg.Dataset.Path, src.Key(), cache, cfg.Dataset.WatchDebounce)
		if err != nil {
			slog.Warn("file watching disabled", "error", err)
		} else if err := w.Start(ctx); err != nil {
			slog.Warn("file watching disabled", "error", err)
			w.Close()
		} else {
			defer w.Close()
		}
	}

	server := web.NewServer(service, cfg, cache)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	code := 0
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		code = 1
		stop()
	}
	<-shutdownDone
	slog.Info("server stopped")
	return code
}

// connect opens and verifies a connection pool.
func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}
