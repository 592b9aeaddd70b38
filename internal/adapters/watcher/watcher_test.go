package watcher_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jig/internal/adapters/logger"
	"go.trai.ch/jig/internal/adapters/watcher"
	"go.trai.ch/jig/internal/core/ports"
)

func newTestWatcher(t *testing.T) *watcher.Watcher {
	t.Helper()
	log := logger.New()
	log.SetOutput(io.Discard)
	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

// waitForEvent drains the watcher until an event matches or the
// timeout passes.
func waitForEvent(t *testing.T, w *watcher.Watcher, match func(ports.WatchEvent) bool) bool {
	t.Helper()

	done := make(chan bool, 1)
	go func() {
		for event := range w.Events() {
			if match(event) {
				done <- true
				return
			}
		}
		done <- false
	}()

	select {
	case ok := <-done:
		return ok
	case <-time.After(5 * time.Second):
		return false
	}
}

func TestWatcher_SeesWrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.js")
	require.NoError(t, os.WriteFile(path, []byte("let a = 1;"), 0o600))

	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	require.NoError(t, os.WriteFile(path, []byte("let a = 2;"), 0o600))

	assert.True(t, waitForEvent(t, w, func(e ports.WatchEvent) bool {
		return e.Path == path && e.Operation == ports.OpWrite
	}))
}

func TestWatcher_SeesCreateInNewDirectory(t *testing.T) {
	root := t.TempDir()

	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	sub := filepath.Join(root, "lib")
	require.NoError(t, os.Mkdir(sub, 0o750))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(sub, "util.js")
	require.NoError(t, os.WriteFile(path, []byte("let u = 1;"), 0o600))

	assert.True(t, waitForEvent(t, w, func(e ports.WatchEvent) bool {
		return e.Path == path
	}))
}

func TestWatcher_SkipsNodeModules(t *testing.T) {
	root := t.TempDir()
	skipped := filepath.Join(root, "node_modules")
	require.NoError(t, os.Mkdir(skipped, 0o750))

	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	require.NoError(t, os.WriteFile(filepath.Join(skipped, "dep.js"), []byte("x"), 0o600))

	assert.False(t, waitForEventBriefly(t, w, func(e ports.WatchEvent) bool {
		return filepath.Dir(e.Path) == skipped
	}))
}

func TestWatcher_CancelEndsStream(t *testing.T) {
	root := t.TempDir()

	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, root))

	done := make(chan struct{})
	go func() {
		for range w.Events() { //nolint:revive // drain until close
		}
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after cancel")
	}
}

func TestWatcher_StopEndsStream(t *testing.T) {
	root := t.TempDir()

	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	done := make(chan struct{})
	go func() {
		for range w.Events() { //nolint:revive // drain until close
		}
		close(done)
	}()

	require.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after stop")
	}
}

// waitForEventBriefly is like waitForEvent with a short deadline, for
// asserting that an event does NOT arrive.
func waitForEventBriefly(t *testing.T, w *watcher.Watcher, match func(ports.WatchEvent) bool) bool {
	t.Helper()

	done := make(chan bool, 1)
	go func() {
		for event := range w.Events() {
			if match(event) {
				done <- true
				return
			}
		}
		done <- false
	}()

	select {
	case ok := <-done:
		return ok
	case <-time.After(500 * time.Millisecond):
		return false
	}
}
