// Package changeset turns a branch diff into a per-project view of changed
// source files, resolving file ownership against the feature branch's commit
// tree rather than the working directory.
package changeset

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/scatterhq/scatter/project"
	"github.com/scatterhq/scatter/treewalk"
	"github.com/scatterhq/scatter/vcs"
)

// BranchChanges is the result of analyzing one feature branch.
type BranchChanges struct {
	// RepoRoot is the repository's absolute root path.
	RepoRoot string
	// FeatureCommit and ComparisonBase are the diffed commit hashes.
	FeatureCommit  string
	ComparisonBase string
	// ProjectFiles maps a manifest path (relative to RepoRoot, forward
	// slashes) to the changed source files it owns, in diff order.
	ProjectFiles map[string][]string
}

// Analyze diffs featureBranch against its merge base with baseBranch and maps
// every changed (non-deleted) source file to its owning project inside the
// feature commit's tree. Files with no resolvable owner are counted and
// skipped. Missing branches are configuration errors and fail the analysis.
func Analyze(repoPath, featureBranch, baseBranch string, log *slog.Logger) (*BranchChanges, error) {
	root, err := vcs.OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}
	log.Info("opened repository", "root", root)

	baseCommit, err := vcs.ResolveBranch(root, baseBranch)
	if err != nil {
		return nil, err
	}
	featureCommit, err := vcs.ResolveBranch(root, featureBranch)
	if err != nil {
		return nil, err
	}

	comparisonBase, err := comparisonBase(root, baseCommit, featureCommit, baseBranch, featureBranch, log)
	if err != nil {
		return nil, err
	}
	log.Info("using comparison base", "commit", shortHash(comparisonBase))

	changes, err := vcs.ChangedFilesBetween(root, comparisonBase, featureCommit)
	if err != nil {
		return nil, err
	}
	log.Info("found changes between base and feature branch", "count", len(changes))

	nav := treewalk.NewGitNavigator(root, featureCommit)
	projectFiles := make(map[string][]string)
	changedSources := 0
	unowned := 0

	for _, change := range changes {
		if change.Status == "D" {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(change.Path), ".cs") {
			continue
		}
		changedSources++

		manifest, ok := project.FindProjectFile(nav, change.Path, log)
		if !ok {
			unowned++
			log.Debug("no owning project for changed file", "file", change.Path)
			continue
		}
		projectFiles[manifest] = append(projectFiles[manifest], change.Path)
	}

	if changedSources == 0 {
		log.Info("no changed C# files found in the diff")
	} else {
		log.Info("mapped changed files to projects",
			"files", changedSources, "projects", len(projectFiles), "unowned", unowned)
	}

	return &BranchChanges{
		RepoRoot:       root,
		FeatureCommit:  featureCommit,
		ComparisonBase: comparisonBase,
		ProjectFiles:   projectFiles,
	}, nil
}

// comparisonBase picks the merge base of the two branches, or the feature
// commit's first parent when the branches share no history. A parentless
// feature commit with no merge base cannot be diffed.
func comparisonBase(root, baseCommit, featureCommit, baseBranch, featureBranch string, log *slog.Logger) (string, error) {
	mergeBase, err := vcs.MergeBase(root, baseCommit, featureCommit)
	if err != nil {
		return "", err
	}
	if mergeBase != "" {
		return mergeBase, nil
	}

	log.Warn("no common merge base found, comparing against the feature branch's first parent",
		"base", baseBranch, "feature", featureBranch)
	parent, err := vcs.FirstParent(root, featureCommit)
	if err != nil {
		return "", fmt.Errorf("branch '%s' has no parent and no merge base with '%s': %w", featureBranch, baseBranch, err)
	}
	return parent, nil
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
