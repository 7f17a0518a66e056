package vcs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runGit executes a git command in repoPath and returns its stdout.
func runGit(repoPath string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			// Check if git is not installed
			if strings.Contains(stderr.String(), "not found") || strings.Contains(stderr.String(), "not recognized") {
				return "", fmt.Errorf("git command not found - please install Git")
			}
			return "", fmt.Errorf("git command failed: %s", strings.TrimSpace(stderr.String()))
		}
		return "", err
	}

	return stdout.String(), nil
}

// IsGitRepository checks if the given path is inside a git repository
func IsGitRepository(path string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	err := cmd.Run()
	return err == nil
}

// RepositoryRoot returns the absolute path to the repository root
func RepositoryRoot(repoPath string) (string, error) {
	out, err := runGit(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// OpenRepository validates repoPath and returns the repository root.
func OpenRepository(repoPath string) (string, error) {
	if _, err := os.Stat(repoPath); os.IsNotExist(err) {
		return "", fmt.Errorf("repository path does not exist: %s", repoPath)
	}
	if !IsGitRepository(repoPath) {
		return "", fmt.Errorf("%s is not a git repository (use 'git init' to initialize)", repoPath)
	}
	return RepositoryRoot(repoPath)
}

// ResolveBranch resolves a local branch name to its commit hash.
// Returns an error if the branch does not exist in the repository.
func ResolveBranch(repoPath, branch string) (string, error) {
	out, err := runGit(repoPath, "rev-parse", "--verify", "refs/heads/"+branch+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("branch '%s' not found in repository: %w", branch, err)
	}
	return strings.TrimSpace(out), nil
}

// ValidateCommit checks if the given commit reference exists in the repository
func ValidateCommit(repoPath, commitID string) error {
	cmd := exec.Command("git", "rev-parse", "--verify", commitID+"^{commit}")
	cmd.Dir = repoPath

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("invalid commit reference '%s': %s", commitID, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("invalid commit reference '%s'", commitID)
	}

	return nil
}

// MergeBase returns the best common ancestor of two commits, or "" when the
// commits share no history.
func MergeBase(repoPath, commitA, commitB string) (string, error) {
	out, err := runGit(repoPath, "merge-base", commitA, commitB)
	if err != nil {
		// merge-base exits non-zero when no common ancestor exists
		return "", nil
	}
	return strings.TrimSpace(out), nil
}

// FirstParent returns the first parent of a commit, or an error for a root commit.
func FirstParent(repoPath, commitID string) (string, error) {
	out, err := runGit(repoPath, "rev-parse", "--verify", commitID+"^")
	if err != nil {
		return "", fmt.Errorf("commit '%s' has no parent: %w", commitID, err)
	}
	return strings.TrimSpace(out), nil
}

// ChangedFile is one entry of a commit-range diff.
type ChangedFile struct {
	// Status is the single-letter git status (A, M, D, R, C, ...).
	Status string
	// Path is the post-change path, relative to the repository root.
	Path string
}

// ChangedFilesBetween lists files changed between two commits using
// 'git diff --name-status'. Renames report the destination path.
func ChangedFilesBetween(repoPath, fromCommit, toCommit string) ([]ChangedFile, error) {
	out, err := runGit(repoPath, "diff", "--name-status", fromCommit, toCommit)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out), nil
}

// parseNameStatus parses 'git diff --name-status' output. Lines with a missing
// status or path field are skipped rather than guessed at.
func parseNameStatus(out string) []ChangedFile {
	var changes []ChangedFile
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Format: STATUS\tpath  (renames/copies: STATUS\told\tnew)
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		status := strings.TrimSpace(parts[0])
		path := parts[len(parts)-1]
		if status == "" || path == "" {
			continue
		}
		changes = append(changes, ChangedFile{Status: status[:1], Path: path})
	}

	return changes
}

// TreeEntry is one row of a 'git ls-tree' listing.
type TreeEntry struct {
	Mode string
	// Type is "blob", "tree" or "commit" (submodule).
	Type string
	Hash string
	Name string
}

// LsTree lists the direct children of a tree-ish object (a commit hash lists
// the commit's root tree; a tree hash lists that tree).
func LsTree(repoPath, treeish string) ([]TreeEntry, error) {
	out, err := runGit(repoPath, "ls-tree", treeish)
	if err != nil {
		return nil, err
	}

	var entries []TreeEntry
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Format: <mode> <type> <hash>\t<name>
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		fields := strings.Fields(line[:tab])
		if len(fields) != 3 {
			continue
		}
		entries = append(entries, TreeEntry{
			Mode: fields[0],
			Type: fields[1],
			Hash: fields[2],
			Name: line[tab+1:],
		})
	}

	return entries, nil
}

// ShowFile reads the content of a file at a specific commit using
// 'git show commit:path'. The filePath should be relative to the repository root.
func ShowFile(repoPath, commitID, filePath string) ([]byte, error) {
	ref := fmt.Sprintf("%s:%s", commitID, filePath)

	cmd := exec.Command("git", "show", ref)
	cmd.Dir = repoPath

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("git show failed: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}
