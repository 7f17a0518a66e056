package consumers

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// sourceExtension is the file extension scanned for consumer evidence.
const sourceExtension = ".cs"

// DirectoryScanCache memoizes the recursive source-file listing of project
// directories. Each directory is scanned at most once per funnel invocation;
// the filesystem is assumed stable for the run, so entries are never
// invalidated. The cache is scoped to one funnel invocation and discarded
// with it - concurrent invocations must use independent caches.
type DirectoryScanCache struct {
	files map[string][]string
	log   *slog.Logger
}

// NewDirectoryScanCache creates an empty cache.
func NewDirectoryScanCache(log *slog.Logger) *DirectoryScanCache {
	return &DirectoryScanCache{
		files: make(map[string][]string),
		log:   log,
	}
}

// SourceFiles returns all source files under dir, reading through the cache.
// Scan failures degrade to an empty (cached) listing: one unreadable project
// directory never aborts the funnel.
func (c *DirectoryScanCache) SourceFiles(dir string) []string {
	if files, ok := c.files[dir]; ok {
		return files
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.log.Warn("skipping unreadable entry during source scan", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), sourceExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		c.log.Warn("could not list source files", "dir", dir, "error", err)
		files = nil
	}

	c.files[dir] = files
	return files
}
