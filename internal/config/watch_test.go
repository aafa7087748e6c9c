package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeThemes(t *testing.T, path, id string) {
	t.Helper()
	data := []byte(`
background: "#000000"
themes:
  - {id: ` + id + `, kind: point, boundary: wrap, count: 3, fade: 0.1, palette: ["#ffffff"]}`)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestWatchReloadsThemes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "themes.yaml")
	writeThemes(t, path, "first")

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan *ThemeSet, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zaptest.NewLogger(t), func(s *ThemeSet) { reloads <- s })
	}()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("themes: ["), 0o644))
	writeThemes(t, path, "second")

	select {
	case set := <-reloads:
		assert.Equal(t, []string{"second"}, set.IDs())
	case <-time.After(5 * time.Second):
		t.Fatal("theme file change was not picked up")
	}
}

func TestWatchSkipsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "themes.yaml")
	writeThemes(t, path, "first")

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan *ThemeSet, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zaptest.NewLogger(t), func(s *ThemeSet) { reloads <- s })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("themes: ["), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	select {
	case <-reloads:
		t.Fatal("an unparsable file must not replace the themes")
	case <-time.After(time.Second):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "themes.yaml"), nil, func(*ThemeSet) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
