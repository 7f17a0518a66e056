package treewalk

import (
	"fmt"
	"path"
	"strings"

	"github.com/scatterhq/scatter/vcs"
)

// GitNavigator navigates the tree of a single commit. Paths are relative to
// the repository root, use forward slashes, and "." names the root itself.
//
// Path components are matched case-insensitively: the filesystem the paths
// came from may fold case differently than the names stored in the commit.
type GitNavigator struct {
	repoPath string
	commit   string
}

// NewGitNavigator creates a navigator over one commit of the repository at
// repoPath. The commit must already be validated by the caller.
func NewGitNavigator(repoPath, commit string) *GitNavigator {
	return &GitNavigator{repoPath: repoPath, commit: commit}
}

// List returns the direct children of dir inside the commit tree.
func (n *GitNavigator) List(dir string) ([]Entry, error) {
	treeish, _, err := n.resolveTree(dir)
	if err != nil {
		return nil, err
	}

	treeEntries, err := vcs.LsTree(n.repoPath, treeish)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(treeEntries))
	for _, te := range treeEntries {
		entries = append(entries, Entry{Name: te.Name, Kind: kindOf(te.Type)})
	}
	return entries, nil
}

// ReadLeaf reads a blob's content from the commit.
func (n *GitNavigator) ReadLeaf(p string) ([]byte, error) {
	dir, base := path.Dir(p), path.Base(p)

	treeish, exactDir, err := n.resolveTree(dir)
	if err != nil {
		return nil, err
	}

	treeEntries, err := vcs.LsTree(n.repoPath, treeish)
	if err != nil {
		return nil, err
	}
	for _, te := range treeEntries {
		if !strings.EqualFold(te.Name, base) {
			continue
		}
		if te.Type != "blob" {
			return nil, fmt.Errorf("'%s' is a %s, not a file", p, te.Type)
		}
		return vcs.ShowFile(n.repoPath, n.commit, n.Join(exactDir, te.Name))
	}
	return nil, fmt.Errorf("'%s' not found in commit %s", p, n.commit)
}

// Join appends a child name to a repo-relative directory path.
func (n *GitNavigator) Join(dir, name string) string {
	if dir == "." || dir == "" {
		return name
	}
	return dir + "/" + name
}

// Parent returns the parent directory; path.Dir maps top-level entries to ".",
// and "." to itself, terminating the upward walk at the repository root.
func (n *GitNavigator) Parent(dir string) string {
	return path.Dir(dir)
}

// resolveTree walks the commit tree one path component at a time and returns
// a tree-ish identifying dir plus the exact stored spelling of the path.
//
// Three outcomes exist per component: a tree (descend), a blob (cannot
// descend - fail this lookup), or a commit object (a submodule boundary -
// also fail). A failure aborts only this lookup; the caller's own upward
// retry at a shallower path is unaffected.
func (n *GitNavigator) resolveTree(dir string) (treeish string, exactPath string, err error) {
	treeish = n.commit
	exactPath = "."
	if dir == "." || dir == "" {
		return treeish, exactPath, nil
	}

	for _, component := range strings.Split(dir, "/") {
		entries, err := vcs.LsTree(n.repoPath, treeish)
		if err != nil {
			return "", "", err
		}

		var found *vcs.TreeEntry
		for i := range entries {
			if strings.EqualFold(entries[i].Name, component) {
				found = &entries[i]
				break
			}
		}
		if found == nil {
			return "", "", fmt.Errorf("path component '%s' not found under '%s' in commit %s", component, exactPath, n.commit)
		}

		switch found.Type {
		case "tree":
			treeish = found.Hash
			exactPath = n.Join(exactPath, found.Name)
		case "blob":
			return "", "", fmt.Errorf("path component '%s' is a file, cannot descend", component)
		case "commit":
			return "", "", fmt.Errorf("path component '%s' is a submodule boundary, cannot descend", component)
		default:
			return "", "", fmt.Errorf("path component '%s' has unexpected type '%s'", component, found.Type)
		}
	}

	return treeish, exactPath, nil
}

func kindOf(objectType string) Kind {
	switch objectType {
	case "tree":
		return KindContainer
	case "blob":
		return KindLeaf
	default:
		// "commit" entries are submodule references
		return KindExternalLink
	}
}
