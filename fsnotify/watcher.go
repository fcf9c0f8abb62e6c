// Package fsnotify invalidates cached Index Sets when filings change on disk.
package fsnotify

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/tenk"
)

// filingName matches the file names of yearly filings, e.g. UBER_2021.html.
var filingName = regexp.MustCompile(`^[A-Za-z0-9.]+_\d{4}\.html?$`)

// Invalidator drops cached state for a data directory.
type Invalidator interface {
	Invalidate(dir string)
}

// Watcher watches the ticker directory of every cached data directory and
// invalidates the directory when one of its filings is written, created,
// removed or renamed.
type Watcher struct {
	Ticker string
	Logger *slog.Logger

	cache   Invalidator
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	watched map[string]string // ticker directory -> data directory
}

// NewWatcher creates a Watcher invalidating entries of cache.
func NewWatcher(cache Invalidator) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, tenk.Errorf(tenk.EINTERNAL, "create file watcher: %v", err)
	}
	return &Watcher{
		Ticker:  tenk.DefaultTicker,
		cache:   cache,
		watcher: w,
		watched: make(map[string]string),
	}, nil
}

// Watch starts watching the filings of dir. Watching a directory twice is a
// no-op. Errors are logged; a directory that cannot be watched is simply
// never invalidated.
func (w *Watcher) Watch(dir string) {
	dir = tenk.CleanDir(dir)
	tickerDir := filepath.Dir(tenk.FilingPath(dir, w.Ticker, tenk.FiscalYears()[0]))

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[tickerDir]; ok {
		return
	}
	if err := w.watcher.Add(tickerDir); err != nil {
		w.logger().Warn("cannot watch filings", "dir", tickerDir, "error", err)
		return
	}
	w.watched[tickerDir] = dir
	w.logger().Debug("watching filings", "dir", tickerDir)
}

// Run processes file events until ctx is canceled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger().Warn("file watcher error", "error", err)
		}
	}
}

// Close stops watching all directories.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !filingName.MatchString(filepath.Base(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	dir, ok := w.watched[filepath.Dir(event.Name)]
	w.mu.Unlock()
	if !ok {
		return
	}

	w.logger().Info("filing changed, invalidating index cache", "file", event.Name, "dir", dir)
	w.cache.Invalidate(dir)
}

func (w *Watcher) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.New(slog.DiscardHandler)
}
