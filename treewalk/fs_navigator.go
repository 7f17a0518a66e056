package treewalk

import (
	"os"
	"path/filepath"
)

// FSNavigator navigates the live filesystem. Paths are absolute and use the
// platform separator.
type FSNavigator struct{}

// NewFSNavigator creates a filesystem navigator.
func NewFSNavigator() *FSNavigator {
	return &FSNavigator{}
}

// List returns the direct children of dir. Symlinks are reported as external
// links: the locator must not follow them across repository boundaries.
func (n *FSNavigator) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		kind := KindLeaf
		switch {
		case de.Type()&os.ModeSymlink != 0:
			kind = KindExternalLink
		case de.IsDir():
			kind = KindContainer
		}
		entries = append(entries, Entry{Name: de.Name(), Kind: kind})
	}

	return entries, nil
}

// ReadLeaf reads a file's content.
func (n *FSNavigator) ReadLeaf(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Join appends a child name to a directory path.
func (n *FSNavigator) Join(dir, name string) string {
	return filepath.Join(dir, name)
}

// Parent returns the parent directory. filepath.Dir returns the input
// unchanged at the filesystem root, which terminates the upward walk.
func (n *FSNavigator) Parent(dir string) string {
	return filepath.Dir(dir)
}
