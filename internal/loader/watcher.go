package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/JonMunkholm/ottdash/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events an editor or exporter
// produces when saving a file.
const DefaultDebounce = 500 * time.Millisecond

// Invalidator drops a cached entry.
type Invalidator interface {
	Invalidate(key string)
}

// Watcher invalidates a cache entry when its dataset file changes.
//
// It watches the file's directory rather than the file itself, so atomic
// saves (write temp file, rename over) are seen too.
type Watcher struct {
	path     string
	key      string
	target   Invalidator
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	started bool
	done    chan struct{}
	closed  bool

	// OnInvalidate, if set, is called after each invalidation.
	OnInvalidate func()
}

// NewWatcher creates a watcher for path that calls target.Invalidate(key).
// A debounce of zero uses DefaultDebounce.
func NewWatcher(path, key string, target Invalidator, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		path:     filepath.Clean(abs),
		key:      key,
		target:   target,
		debounce: debounce,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns immediately; the event loop runs until
// ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	if w.started {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.started = true
	go w.run(ctx)

	slog.Info("watching dataset file", "path", w.path, "debounce", w.debounce)
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	err := w.fsw.Close()
	if started {
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("dataset file event", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("dataset watcher error", "error", err)

		case <-timer.C:
			w.target.Invalidate(w.key)
			logging.ForSource(ctx, w.key).Info("dataset changed on disk, cache invalidated", "path", w.path)
			if w.OnInvalidate != nil {
				w.OnInvalidate()
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
