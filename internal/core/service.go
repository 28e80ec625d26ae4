package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/ottdash/internal/logging"
	"github.com/JonMunkholm/ottdash/internal/schema"
)

// Source reads a dataset into a Table.
type Source interface {
	// Key identifies the source for caching ("file:/data/ott.csv").
	Key() string
	// Fingerprint changes whenever the underlying data changes.
	Fingerprint(ctx context.Context) (string, error)
	// Read loads the full table.
	Read(ctx context.Context) (*Table, error)
}

// TableLoader loads tables with memoization.
type TableLoader interface {
	Load(ctx context.Context, src Source) (*Table, error)
	Invalidate(key string)
}

// Service is the entry point for dashboard operations.
// It owns the current source; the loader owns the cached table.
type Service struct {
	loader TableLoader
	conv   schema.Conventions

	mu  sync.RWMutex
	src Source
}

// NewService creates a Service reading from src.
func NewService(loader TableLoader, src Source, conv schema.Conventions) (*Service, error) {
	if loader == nil {
		return nil, fmt.Errorf("nil loader")
	}
	if src == nil {
		return nil, fmt.Errorf("nil source")
	}
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	return &Service{loader: loader, src: src, conv: conv}, nil
}

// Source returns the current source.
func (s *Service) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.src
}

// Conventions returns the schema conventions in use.
func (s *Service) Conventions() schema.Conventions {
	return s.conv
}

// SetSource switches to a new source and drops the old source's cache entry.
func (s *Service) SetSource(src Source) {
	s.mu.Lock()
	old := s.src
	s.src = src
	s.mu.Unlock()

	if old != nil && old.Key() != src.Key() {
		s.loader.Invalidate(old.Key())
		slog.Info("dataset source changed", "from", old.Key(), "to", src.Key())
	}
}

// Reload drops the cached table so the next request reads the source again.
func (s *Service) Reload() {
	src := s.Source()
	s.loader.Invalidate(src.Key())
	slog.Info("dataset cache invalidated", "source", src.Key())
}

// Table returns the loaded table.
// Errors are DataUnavailableError.
func (s *Service) Table(ctx context.Context) (*Table, error) {
	src := s.Source()
	t, err := s.loader.Load(ctx, src)
	if err != nil {
		return nil, NewDataUnavailable(src.Key(), err)
	}
	return t, nil
}

// Dataset loads, classifies and reshapes the current source.
// Errors are DataUnavailableError or SchemaMismatchError, both fatal.
func (s *Service) Dataset(ctx context.Context) (*Dataset, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Prepare(t, s.conv)
}

// Dashboard runs one render cycle for sel.
func (s *Service) Dashboard(ctx context.Context, sel Selection) (Dashboard, error) {
	start := time.Now()

	ds, err := s.Dataset(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := BuildDashboard(ds, sel)

	empty := 0
	for _, sec := range d.Sections {
		if sec.Empty() {
			empty++
		}
	}
	logging.ForSource(ctx, d.Source).Debug("dashboard rendered",
		"render_id", d.RenderID,
		"layout", d.Layout.Kind,
		"records", len(ds.Records),
		"empty_sections", empty,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return d, nil
}

// Options returns the filter options of the current dataset.
func (s *Service) Options(ctx context.Context) (FilterOptions, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	return ds.Options, nil
}

// Records returns the records matching c.
// An empty result is returned together with ErrEmptySelection so callers
// can show an empty state; the slice is still valid.
func (s *Service) Records(ctx context.Context, c Criteria) ([]Observation, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	out := Filter(ds.Records, c)
	if len(out) == 0 {
		return out, ErrEmptySelection
	}
	return out, nil
}
