// Package project locates and describes .NET build units. A build unit is a
// project identified by its .csproj manifest; nested source files belong to
// the nearest ancestor directory holding a manifest.
package project

import (
	"os"
	"path/filepath"
	"strings"
)

// ManifestExtension marks a project manifest file.
const ManifestExtension = ".csproj"

// BuildUnit is one project, identified by the absolute path of its manifest.
type BuildUnit struct {
	// ManifestPath is the project's identity.
	ManifestPath string
	// Name is the manifest filename stem.
	Name string
	// Namespace is the project's derived root namespace. Empty when no
	// namespace could be derived.
	Namespace string
}

// NewBuildUnit describes the project at manifestPath and derives its
// namespace from the manifest (filename stem on parse failure is handled by
// DeriveNamespace's fallback; a read failure leaves Namespace empty).
func NewBuildUnit(manifestPath string) BuildUnit {
	namespace, _ := DeriveNamespace(manifestPath)
	return BuildUnit{
		ManifestPath: manifestPath,
		Name:         Stem(manifestPath),
		Namespace:    namespace,
	}
}

// Stem returns the filename without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsManifest reports whether name is a project manifest filename. The
// comparison is case-insensitive: manifests on disk may carry any casing.
func IsManifest(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ManifestExtension)
}

// CanonicalPath resolves a path to a stable identity: absolute, cleaned, and
// with symlinks resolved when the target exists. Two different relative
// spellings of the same manifest compare equal under this form.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return filepath.Clean(abs)
}

// SamePath reports whether two paths identify the same file. Prefers inode
// identity when both files exist, falling back to canonical path equality.
func SamePath(a, b string) bool {
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(infoA, infoB)
	}
	return CanonicalPath(a) == CanonicalPath(b)
}
