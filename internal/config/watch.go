package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Editors tend to write a file in several steps; wait for them to settle.
const reloadDebounce = 200 * time.Millisecond

// Watch reloads the theme file at path whenever it changes and hands every
// set that parses to onReload. A file that fails to parse is logged and
// skipped, leaving the previous themes in effect. Watch blocks until ctx is
// done.
func Watch(ctx context.Context, path string, log *zap.Logger, onReload func(*ThemeSet)) error {
	if log == nil {
		log = zap.NewNop()
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve theme path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so atomic renames by editors are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	log.Info("watching theme file", zap.String("path", path))

	debounce := time.NewTimer(reloadDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("theme file changed", zap.Stringer("op", event.Op))
			debounce.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("theme watcher error", zap.Error(err))

		case <-debounce.C:
			set, err := LoadThemes(path)
			if err != nil {
				log.Warn("theme reload failed, keeping previous themes", zap.Error(err))
				continue
			}
			log.Info("themes reloaded", zap.Int("count", len(set.Themes)))
			onReload(set)
		}
	}
}
