// Package watcher bridges OS filesystem events to the incremental
// reindexer: a fsnotify.Watcher recursively subscribed to a repository
// root, debouncing changes per path before enqueuing a reindex.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
	"github.com/parseltongue/parseltongue/pkg/reindex"
)

// defaultDebounce is the stabilization window the spec requires before a
// changed path is considered settled enough to reindex.
const defaultDebounce = 100 * time.Millisecond

// skipDirs mirrors the ingest walk's default excludes — directories never
// worth a watch descriptor.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true,
	"dist": true, "build": true, "target": true, ".parseltongue": true,
}

// Status reports the watcher's current state for a status query endpoint.
type Status struct {
	Enabled           bool     `json:"enabled"`
	Running           bool     `json:"running"`
	Root              string   `json:"root"`
	WatchedExtensions []string `json:"watched_extensions"`
	EventsProcessed   int64    `json:"events_processed"`
}

// Watcher recursively watches a root directory and routes stabilized
// changes to a reindex.Reindexer.
type Watcher struct {
	root      string
	reindexer *reindex.Reindexer
	debounce  time.Duration
	logger    *slog.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	running bool

	eventsProcessed atomic.Int64
}

// New builds a Watcher over root, routing stabilized changes into
// reindexer. debounce <= 0 selects the default 100ms window.
func New(root string, reindexer *reindex.Reindexer, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:      root,
		reindexer: reindexer,
		debounce:  debounce,
		logger:    logger,
		timers:    make(map[string]*time.Timer),
	}
}

// Start opens the fsnotify watcher, recursively subscribes to root, and
// runs the event loop until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	if err := w.addRecursive(); err != nil {
		fsw.Close()
		return err
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

func (w *Watcher) addRecursive() error {
	return filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if base != filepath.Base(w.root) && (skipDirs[base] || strings.HasPrefix(base, ".")) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watcher.add_failed", "path", path, "err", err)
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
		}
		return nil
	})
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.eventsProcessed.Add(1)
			w.scheduleReindex(ctx, event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher.fsnotify_error", "err", err)
		}
	}
}

// scheduleReindex debounces path's changes, resetting the timer on every
// further event until it fires undisturbed for w.debounce.
func (w *Watcher) scheduleReindex(ctx context.Context, path string) {
	ext := filepath.Ext(path)
	if _, ok := langreg.ByExtension(ext); !ok {
		return
	}

	w.mu.Lock()
	if t, exists := w.timers[path]; exists {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.runReindex(ctx, path)
	})
	w.mu.Unlock()
}

func (w *Watcher) runReindex(ctx context.Context, fullPath string) {
	rel, err := filepath.Rel(w.root, fullPath)
	if err != nil {
		w.logger.Warn("watcher.rel_path_failed", "path", fullPath, "err", err)
		return
	}
	normalized := pathkey.Normalize(rel)
	ext := filepath.Ext(normalized)
	lang, ok := langreg.ByExtension(ext)
	if !ok {
		return
	}

	if _, err := os.Stat(fullPath); err != nil {
		w.logger.Info("watcher.skip_missing", "path", normalized)
		return
	}

	res, err := w.reindexer.ReindexFile(ctx, fullPath, normalized, lang)
	if err != nil {
		w.logger.Warn("watcher.reindex_failed", "path", normalized, "err", err)
		return
	}
	w.logger.Info("watcher.reindex_done", "path", normalized,
		"added", res.Added, "modified", res.Modified, "deleted", res.Deleted, "hash_changed", res.HashChanged)
}

// StatusOf reports the watcher's current state.
func (w *Watcher) StatusOf() Status {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	exts := make([]string, 0, 16)
	for _, l := range langreg.All() {
		exts = append(exts, l.Extensions...)
	}

	return Status{
		Enabled:           true,
		Running:           running,
		Root:              w.root,
		WatchedExtensions: exts,
		EventsProcessed:   w.eventsProcessed.Load(),
	}
}
