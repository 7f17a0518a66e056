package consumers

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/scatterhq/scatter/project"
)

// FindManifests enumerates all project manifests under the search scope.
// Unreadable entries are skipped, not fatal.
func FindManifests(scope string, log *slog.Logger) []string {
	var manifests []string
	err := filepath.WalkDir(scope, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("skipping unreadable entry during manifest scan", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() && project.IsManifest(d.Name()) {
			manifests = append(manifests, path)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to scan search scope", "scope", scope, "error", err)
	}
	return manifests
}

// FindDirectConsumers returns every project in scope whose manifest declares
// a reference resolving to the target manifest. These are
// Project-Reference-stage matches with empty file sets.
//
// The target itself is excluded by resolved identity, never by string
// comparison: a self-referencing or symlinked spelling of the target's own
// path must not report the target as its own consumer.
func FindDirectConsumers(targetManifest, scope string, log *slog.Logger) []ConsumerMatch {
	targetCanonical := project.CanonicalPath(targetManifest)

	var matches []ConsumerMatch
	for _, candidate := range FindManifests(scope, log) {
		candidateCanonical := project.CanonicalPath(candidate)
		if candidateCanonical == targetCanonical || project.SamePath(candidate, targetManifest) {
			continue
		}

		refs, err := project.ProjectReferences(candidate)
		if err != nil {
			log.Warn("skipping reference check for manifest", "manifest", candidate, "error", err)
			continue
		}

		for _, include := range refs {
			resolved, ok := project.ResolveReference(filepath.Dir(candidate), include)
			if !ok {
				log.Debug("skipping reference with build variable", "manifest", candidate, "include", include)
				continue
			}
			if project.SamePath(resolved, targetManifest) {
				matches = append(matches, ConsumerMatch{
					ManifestPath: candidateCanonical,
					Name:         project.Stem(candidate),
					Stage:        StageProjectReference,
				})
				break
			}
		}
	}

	return matches
}
