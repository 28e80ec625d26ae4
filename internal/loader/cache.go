// Package loader caches dataset tables and keeps them fresh.
//
// A cached table is reused until its source fingerprint changes or the entry
// is invalidated. Concurrent loads of the same source version share one read.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/ottdash/internal/core"
	"github.com/JonMunkholm/ottdash/internal/logging"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	table       *core.Table
	fingerprint string
	loadedAt    time.Time
}

// Stats reports cache activity.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Loader memoizes tables by source key. Safe for concurrent use.
type Loader struct {
	mu      sync.Mutex
	entries map[string]entry
	gen     uint64 // Bumped by Invalidate and Reset
	hits    int64
	misses  int64

	group singleflight.Group
}

// New creates an empty Loader.
func New() *Loader {
	return &Loader{entries: make(map[string]entry)}
}

// Load returns the table for src, reading it only when the cached copy is
// missing or stale. Every error is a *core.DataUnavailableError.
func (l *Loader) Load(ctx context.Context, src core.Source) (*core.Table, error) {
	key := src.Key()

	fp, err := src.Fingerprint(ctx)
	if err != nil {
		return nil, core.NewDataUnavailable(key, err)
	}

	l.mu.Lock()
	if e, ok := l.entries[key]; ok && e.fingerprint == fp {
		l.hits++
		l.mu.Unlock()
		return e.table, nil
	}
	l.misses++
	gen := l.gen
	l.mu.Unlock()

	// The read outlives a cancelled caller so other waiters still get the result.
	readCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key+"\x00"+fp, func() (interface{}, error) {
		return l.read(readCtx, src, fp, gen)
	})

	select {
	case <-ctx.Done():
		return nil, core.NewDataUnavailable(key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, core.NewDataUnavailable(key, res.Err)
		}
		return res.Val.(*core.Table), nil
	}
}

func (l *Loader) read(ctx context.Context, src core.Source, fp string, gen uint64) (*core.Table, error) {
	start := time.Now()
	key := src.Key()

	log := logging.ForSource(ctx, key)
	t, err := src.Read(ctx)
	if err != nil {
		log.Warn("dataset load failed", "error", err)
		return nil, err
	}

	l.mu.Lock()
	// A table read before an Invalidate is still returned to its callers but
	// not cached.
	if l.gen == gen {
		l.entries[key] = entry{table: t, fingerprint: fp, loadedAt: time.Now()}
	}
	l.mu.Unlock()

	log.Info("dataset loaded",
		"rows", t.Len(),
		"columns", len(t.Columns()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return t, nil
}

// Invalidate drops the cached table for key. The next Load reads the source.
func (l *Loader) Invalidate(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	l.gen++
}

// Reset drops every cached table.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]entry)
	l.gen++
}

// LoadedAt returns when the cached table for key was read.
func (l *Loader) LoadedAt(key string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	return e.loadedAt, ok
}

// Stats returns a snapshot of cache activity.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Hits: l.hits, Misses: l.misses, Entries: len(l.entries)}
}
