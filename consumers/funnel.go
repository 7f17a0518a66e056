package consumers

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// Target describes one (build unit, symbol) query for the funnel.
type Target struct {
	// ManifestPath is the target project's manifest.
	ManifestPath string
	// Namespace is the target's derived namespace. Empty means the
	// namespace is unknown or unreliable; the namespace stage is skipped.
	Namespace string
	// TypeName optionally narrows matches to files using this type.
	TypeName string
	// MethodName optionally narrows matches to files containing a
	// member-access call of this method. Ignored without TypeName by the
	// CLI layer; the funnel applies whatever it is given.
	MethodName string
}

// Funnel narrows the set of projects consuming a target through four ordered
// stages: project-reference, namespace-import, type-usage, call-site-usage.
// From the namespace stage onward every stage re-scans only the files the
// previous stage attributed to a survivor, so file sets shrink monotonically.
type Funnel struct {
	scope string
	cache *DirectoryScanCache
	log   *slog.Logger
}

// NewFunnel creates a funnel over one search scope. The embedded scan cache
// lives for the funnel's lifetime; use one Funnel per analysis run.
func NewFunnel(scope string, log *slog.Logger) *Funnel {
	return &Funnel{
		scope: scope,
		cache: NewDirectoryScanCache(log),
		log:   log,
	}
}

// FindConsumers runs the full funnel for one target.
func (f *Funnel) FindConsumers(target Target) []ConsumerMatch {
	// Stage 1: declared project references. Nothing can rescue a consumer
	// that fails here.
	direct := FindDirectConsumers(target.ManifestPath, f.scope, f.log)
	f.log.Debug("project-reference stage complete", "survivors", len(direct))
	if len(direct) == 0 {
		return nil
	}

	// Stage 2: namespace imports.
	byNamespace := f.filterByNamespace(direct, target.Namespace)
	if len(byNamespace) == 0 {
		// A caller explicitly filtering by type wants precision, so an
		// empty namespace stage is final. A broad sweep gets the wider
		// project-reference answer instead.
		if target.TypeName != "" {
			return nil
		}
		return direct
	}
	if target.TypeName == "" {
		return byNamespace
	}

	// Stage 3: whole-word type usage, over stage-2 files only.
	typePattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(target.TypeName) + `\b`)
	byType := f.narrow(byNamespace, StageTypeUsage, typePattern)
	f.log.Debug("type-usage stage complete", "type", target.TypeName, "survivors", len(byType))
	if len(byType) == 0 {
		return nil
	}
	if target.MethodName == "" {
		return byType
	}

	// Stage 4: member-access call sites, over stage-3 files only.
	callPattern := regexp.MustCompile(`\.\s*` + regexp.QuoteMeta(target.MethodName) + `\s*\(`)
	byCall := f.narrow(byType, StageCallSiteUsage, callPattern)
	f.log.Debug("call-site stage complete", "method", target.MethodName, "survivors", len(byCall))
	return byCall
}

// filterByNamespace keeps consumers with at least one source file importing
// the target namespace or a sub-namespace, attributing exactly the matching
// files. An unknown namespace skips the stage: every survivor passes through
// unchanged with no asserted files, the widest interpretation.
func (f *Funnel) filterByNamespace(survivors []ConsumerMatch, namespace string) []ConsumerMatch {
	if namespace == "" {
		f.log.Warn("target namespace unknown, skipping namespace usage check")
		return survivors
	}

	usingPattern := regexp.MustCompile(
		`(?m)(?:^|;|\{)\s*(?:global\s+)?using\s+` + regexp.QuoteMeta(namespace) + `(?:\.[A-Za-z0-9_.]+)?\s*;`)

	var matched []ConsumerMatch
	for _, consumer := range survivors {
		projectDir := filepath.Dir(consumer.ManifestPath)

		var files []string
		for _, file := range f.cache.SourceFiles(projectDir) {
			if f.fileMatches(file, usingPattern) {
				files = append(files, file)
			}
		}
		if len(files) == 0 {
			continue
		}

		consumer.Stage = StageNamespaceImport
		consumer.Files = files
		matched = append(matched, consumer)
	}

	f.log.Debug("namespace-import stage complete", "namespace", namespace, "survivors", len(matched))
	return matched
}

// narrow is the shared stage transition: re-scan each survivor's attributed
// file set against pattern, keep only the matching subset, and drop survivors
// with no matches. Narrowing is mechanical here, so the subset invariant
// holds for every stage built on it.
func (f *Funnel) narrow(survivors []ConsumerMatch, stage Stage, pattern *regexp.Regexp) []ConsumerMatch {
	var matched []ConsumerMatch
	for _, consumer := range survivors {
		var files []string
		for _, file := range consumer.Files {
			if f.fileMatches(file, pattern) {
				files = append(files, file)
			}
		}
		if len(files) == 0 {
			continue
		}

		consumer.Stage = stage
		consumer.Files = files
		matched = append(matched, consumer)
	}
	return matched
}

// fileMatches reads a file best-effort and tests it against pattern. Read
// failures and decoding oddities never abort a scan; the file just does not
// match.
func (f *Funnel) fileMatches(path string, pattern *regexp.Regexp) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		f.log.Warn("could not read source file", "path", path, "error", err)
		return false
	}
	return pattern.Match(content)
}
