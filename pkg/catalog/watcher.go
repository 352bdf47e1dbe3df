package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must be quiet before a reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog file into a Source when it changes on disk.
// A file that fails to load leaves the previous catalog in place.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	path     string
	source   *Source
	logger   *slog.Logger
	debounce time.Duration
	onReload func(*Catalog)

	pending time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	reloads int
	errors  int
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithOnReload registers a callback run after each successful reload.
func WithOnReload(fn func(*Catalog)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher for the catalog file at path.
func NewWatcher(path string, source *Source, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		path:     filepath.Clean(path),
		source:   source,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It watches the parent directory so editors that
// replace the file by rename are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.logger.Info("watching catalog", "path", w.path)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close catalog watcher", "error", err)
	}
}

// Reload loads the file now and swaps it in on success.
func (w *Watcher) Reload() error {
	c, err := Load(w.path)
	if err != nil {
		w.mu.Lock()
		w.errors++
		w.mu.Unlock()
		w.logger.Error("catalog reload failed, keeping previous", "path", w.path, "error", err)
		return err
	}

	w.source.Swap(c)
	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	w.logger.Info("catalog reloaded", "path", w.path, "projects", c.Len())

	if w.onReload != nil {
		w.onReload(c)
	}
	return nil
}

// Stats returns the number of successful and failed reloads.
func (w *Watcher) Stats() (reloads, errors int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads, w.errors
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("catalog changed", "op", event.Op.String())
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalog watcher error", "error", err)

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if due {
				w.Reload()
			}
		}
	}
}
