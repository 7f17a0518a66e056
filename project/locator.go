package project

import (
	"log/slog"

	"github.com/scatterhq/scatter/treewalk"
)

// FindProjectFile walks ancestor directories upward from sourcePath until a
// directory containing a manifest is found, and returns the manifest's path
// in the navigator's path convention.
//
// The walk stops with ok=false at the tree root, or when navigation fails
// (ambiguous path, submodule boundary, I/O error). Absence of a manifest is
// the reported outcome, never an error: failures are logged at debug level
// and swallowed.
//
// When a directory holds several manifests, the first one in the navigator's
// enumeration order wins. That order is backend-dependent, which is a known,
// accepted ambiguity.
func FindProjectFile(nav treewalk.Navigator, sourcePath string, log *slog.Logger) (manifestPath string, ok bool) {
	dir := nav.Parent(sourcePath)

	for {
		entries, err := nav.List(dir)
		if err != nil {
			log.Debug("project search aborted", "dir", dir, "error", err)
			return "", false
		}

		for _, entry := range entries {
			if entry.Kind != treewalk.KindLeaf {
				continue
			}
			if IsManifest(entry.Name) {
				// Join with the entry's actual stored name, not the
				// caller's spelling.
				return nav.Join(dir, entry.Name), true
			}
		}

		parent := nav.Parent(dir)
		if parent == dir {
			log.Debug("no manifest found upward", "from", sourcePath)
			return "", false
		}
		dir = parent
	}
}
