package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parseltongue/parseltongue/pkg/reindex"
)

func TestNew_DefaultsDebounceWhenNonPositive(t *testing.T) {
	w := New(t.TempDir(), reindex.New(nil), 0, nil)
	assert.Equal(t, defaultDebounce, w.debounce)
	assert.NotNil(t, w.logger)
}

func TestStatusOf_ReportsRootAndExtensions(t *testing.T) {
	root := t.TempDir()
	w := New(root, reindex.New(nil), 10*time.Millisecond, nil)

	status := w.StatusOf()
	assert.Equal(t, root, status.Root)
	assert.True(t, status.Enabled)
	assert.False(t, status.Running)
	assert.NotEmpty(t, status.WatchedExtensions)
	assert.Zero(t, status.EventsProcessed)
}

func TestScheduleReindex_IgnoresUnsupportedExtension(t *testing.T) {
	root := t.TempDir()
	w := New(root, reindex.New(nil), 10*time.Millisecond, nil)

	w.scheduleReindex(context.Background(), filepath.Join(root, "README.md"))

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.timers)
}

func TestScheduleReindex_DebouncesRepeatedEvents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	w := New(root, reindex.New(nil), 30*time.Millisecond, nil)

	w.scheduleReindex(context.Background(), path)
	w.mu.Lock()
	firstTimer := w.timers[path]
	w.mu.Unlock()
	require.NotNil(t, firstTimer)

	w.scheduleReindex(context.Background(), path)
	w.mu.Lock()
	secondTimer := w.timers[path]
	count := len(w.timers)
	w.mu.Unlock()

	assert.Equal(t, 1, count)
	assert.NotSame(t, firstTimer, secondTimer)
}

func TestAddRecursive_SkipsDotGitAndVendor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "internal"), 0o755))

	w := New(root, reindex.New(nil), 10*time.Millisecond, nil)
	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()
	w.fsw = fsw

	require.NoError(t, w.addRecursive())

	watched := fsw.WatchList()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "internal"))
	for _, p := range watched {
		assert.NotContains(t, p, ".git")
		assert.NotContains(t, p, "vendor")
	}
}
