package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	".vs":          true,
	"bin":          true,
	"obj":          true,
	"packages":     true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// watchAndRerun watches the scope recursively and invokes rerun after each
// debounced burst of source or manifest changes. Returns when ctx is done.
func watchAndRerun(ctx context.Context, scope string, log *slog.Logger, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, scope); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}
	log.Info("watching for changes", "scope", scope)

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}

			// New directories join the watch set as they appear.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addWatchDirs(watcher, event.Name)
				}
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				log.Debug("change burst settled, re-running analysis", "trigger", event.Name)
				rerun()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

// relevantEvent keeps only changes that can affect the analysis: C# sources
// and project manifests.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".cs" || ext == ".csproj" || ext == ""
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
