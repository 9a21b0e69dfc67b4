package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDebounce = 100 * time.Millisecond

func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md")
}

// startWatcher runs a Watcher on dir and returns a channel that receives a
// value for every rebuild.
func startWatcher(t *testing.T, dir string) (*Watcher, <-chan struct{}) {
	t.Helper()

	w, err := New(dir, isMarkdown, testDebounce)
	require.NoError(t, err)

	rebuilds := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			rebuilds <- struct{}{}
			return nil
		})
	}()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return w, rebuilds
}

func waitRebuild(t *testing.T, rebuilds <-chan struct{}) {
	t.Helper()
	select {
	case <-rebuilds:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebuild")
	}
}

func assertNoRebuild(t *testing.T, rebuilds <-chan struct{}) {
	t.Helper()
	select {
	case <-rebuilds:
		t.Fatal("unexpected rebuild")
	case <-time.After(4 * testDebounce):
	}
}

func TestRebuildOnNotesChange(t *testing.T) {
	dir := t.TempDir()
	w, rebuilds := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "posd.md"), []byte("# Complexity\n"), 0644))
	waitRebuild(t, rebuilds)

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.Equal(t, filepath.Join(dir, "posd.md"), stats.LastEventPath)
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	_, rebuilds := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0644))
	assertNoRebuild(t, rebuilds)
}

func TestDebounceBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	w, rebuilds := startWatcher(t, dir)

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("# "+name+"\n"), 0644))
	}

	waitRebuild(t, rebuilds)
	assertNoRebuild(t, rebuilds)
	assert.Equal(t, 1, w.Stats().Rebuilds)
}

func TestWatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	_, rebuilds := startWatcher(t, dir)

	sub := filepath.Join(dir, "books")
	require.NoError(t, os.Mkdir(sub, 0755))
	waitRebuild(t, rebuilds)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "clean-code.md"), []byte("# Names\n"), 0644))
	waitRebuild(t, rebuilds)
}

func TestSkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".git")
	require.NoError(t, os.Mkdir(hidden, 0755))

	w, rebuilds := startWatcher(t, dir)
	w.mu.Lock()
	assert.NotContains(t, w.dirs, hidden)
	w.mu.Unlock()

	require.NoError(t, os.WriteFile(filepath.Join(hidden, "notes.md"), []byte("# x\n"), 0644))
	assertNoRebuild(t, rebuilds)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), isMarkdown, 0)
	require.Error(t, err)
}
