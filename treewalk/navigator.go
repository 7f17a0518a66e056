package treewalk

// Kind classifies a directory child.
type Kind int

const (
	// KindContainer is a directory (or git tree) that can be descended into.
	KindContainer Kind = iota
	// KindLeaf is a regular file (or git blob).
	KindLeaf
	// KindExternalLink is a placeholder that cannot be descended into, such
	// as a symlink or a nested-repository (submodule) reference.
	KindExternalLink
)

// Entry is one child of a directory listing.
type Entry struct {
	Name string
	Kind Kind
}

// Navigator abstracts directory listing over a tree-shaped backend. The two
// implementations are FSNavigator (live filesystem) and GitNavigator (an
// immutable view of one commit). Path conventions (separator, root spelling)
// are backend-specific, so path arithmetic goes through Join and Parent.
type Navigator interface {
	// List returns the direct children of dir.
	List(dir string) ([]Entry, error)

	// ReadLeaf returns the content of a leaf.
	ReadLeaf(path string) ([]byte, error)

	// Join appends a child name to a directory path.
	Join(dir, name string) string

	// Parent returns the parent directory of dir. At the root, Parent
	// returns dir unchanged, which is the upward-walk termination signal.
	Parent(dir string) string
}
