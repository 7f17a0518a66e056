package analysis

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/scatterhq/scatter/changeset"
	"github.com/scatterhq/scatter/consumers"
	"github.com/scatterhq/scatter/lexical"
	"github.com/scatterhq/scatter/project"
	"github.com/scatterhq/scatter/report"
)

// BranchQuery is one git-branch analysis request.
type BranchQuery struct {
	RepoPath      string
	FeatureBranch string
	BaseBranch    string

	// TypeName, when set, restricts analysis to that type - and only if it
	// actually appears among the declarations of the changed files.
	TypeName string
	// MethodName further narrows the TypeName filter's call sites.
	MethodName string
}

// AnalyzeBranch diffs the feature branch, extracts the type declarations of
// every changed source file, and funnels consumers per (project, type)
// target.
func AnalyzeBranch(ctx context.Context, query BranchQuery, opts Options, log *slog.Logger) ([]report.Record, error) {
	changes, err := changeset.Analyze(query.RepoPath, query.FeatureBranch, query.BaseBranch, log)
	if err != nil {
		return nil, err
	}
	if len(changes.ProjectFiles) == 0 {
		log.Info("no projects with changed C# files found")
		return nil, nil
	}

	typesByProject := extractChangedTypes(changes, log)
	if len(typesByProject) == 0 {
		log.Info("no type declarations found in the changed files")
		return nil, nil
	}

	// Deterministic target order regardless of map iteration.
	manifests := make([]string, 0, len(typesByProject))
	for manifest := range typesByProject {
		manifests = append(manifests, manifest)
	}
	sort.Strings(manifests)

	var records []report.Record
	for _, manifestRel := range manifests {
		manifestAbs := filepath.Join(changes.RepoRoot, filepath.FromSlash(manifestRel))
		targetName := project.Stem(manifestRel)

		if _, err := os.Stat(manifestAbs); err != nil {
			log.Warn("target manifest not found on disk, skipping", "manifest", manifestAbs)
			continue
		}

		namespace, err := project.DeriveNamespace(manifestAbs)
		if err != nil {
			log.Warn("could not derive namespace, consumer analysis may be incomplete",
				"project", targetName, "error", err)
			namespace = ""
		}

		for _, typeName := range selectTypes(typesByProject[manifestRel], query.TypeName, log) {
			// The method filter only applies to the explicitly requested type.
			methodFilter := ""
			if query.TypeName == typeName {
				methodFilter = query.MethodName
			}

			log.Info("checking consumers of changed type", "project", targetName, "type", typeName)
			funnel := consumers.NewFunnel(opts.Scope, log)
			matches := funnel.FindConsumers(consumers.Target{
				ManifestPath: manifestAbs,
				Namespace:    namespace,
				TypeName:     typeName,
				MethodName:   methodFilter,
			})
			if len(matches) == 0 {
				log.Info("no consumers found for type", "type", typeName)
				continue
			}

			records = append(records, buildRecords(ctx, opts, log,
				targetName, manifestRel, typeName, matches)...)
		}
	}

	report.Sort(records)
	return records, nil
}

// extractChangedTypes reads every changed file from the working tree and
// collects the type names it declares, per project. Files deleted or moved
// since the branch head are skipped.
func extractChangedTypes(changes *changeset.BranchChanges, log *slog.Logger) map[string][]string {
	typesByProject := make(map[string][]string)

	for manifestRel, files := range changes.ProjectFiles {
		seen := make(map[string]bool)
		var types []string

		for _, fileRel := range files {
			fileAbs := filepath.Join(changes.RepoRoot, filepath.FromSlash(fileRel))
			content, err := os.ReadFile(fileAbs)
			if err != nil {
				log.Warn("changed file not readable on disk (deleted or moved?)", "file", fileAbs, "error", err)
				continue
			}
			for _, name := range lexical.ExtractDeclarations(string(content)) {
				if !seen[name] {
					seen[name] = true
					types = append(types, name)
				}
			}
		}

		if len(types) > 0 {
			typesByProject[manifestRel] = types
		}
	}

	return typesByProject
}

// selectTypes applies the optional explicit type filter to a project's
// extracted declarations: the filter must match a changed type to analyze
// anything at all. Without a filter, all changed types are analyzed in
// sorted order.
func selectTypes(extracted []string, filter string, log *slog.Logger) []string {
	if filter == "" {
		sorted := append([]string(nil), extracted...)
		sort.Strings(sorted)
		return sorted
	}
	for _, name := range extracted {
		if name == filter {
			return []string{filter}
		}
	}
	log.Info("explicitly provided type not found in changed files, skipping", "type", filter)
	return nil
}
