package project

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// csprojFile mirrors the subset of the MSBuild project format the analysis
// needs. encoding/xml matches element local names regardless of namespace, so
// the same structure reads both the msbuild-namespaced (legacy) and the
// un-namespaced (SDK-style) tag conventions.
type csprojFile struct {
	XMLName        xml.Name        `xml:"Project"`
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
	ItemGroups     []itemGroup     `xml:"ItemGroup"`
}

type propertyGroup struct {
	RootNamespace string `xml:"RootNamespace"`
	AssemblyName  string `xml:"AssemblyName"`
}

type itemGroup struct {
	ProjectReferences []projectReference `xml:"ProjectReference"`
}

type projectReference struct {
	Include string `xml:"Include,attr"`
}

func parseManifest(manifestPath string) (*csprojFile, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var doc csprojFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", manifestPath, err)
	}
	return &doc, nil
}

// DeriveNamespace derives the primary namespace of a project: the first
// non-empty <RootNamespace>, then <AssemblyName>, then the manifest filename
// stem as a last resort.
func DeriveNamespace(manifestPath string) (string, error) {
	doc, err := parseManifest(manifestPath)
	if err != nil {
		return "", err
	}

	for _, pick := range []func(propertyGroup) string{
		func(g propertyGroup) string { return g.RootNamespace },
		func(g propertyGroup) string { return g.AssemblyName },
	} {
		for _, group := range doc.PropertyGroups {
			if value := strings.TrimSpace(pick(group)); value != "" {
				return value, nil
			}
		}
	}

	return Stem(manifestPath), nil
}

// ProjectReferences returns the declared reference list of a manifest as raw
// Include values.
func ProjectReferences(manifestPath string) ([]string, error) {
	doc, err := parseManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	var refs []string
	for _, group := range doc.ItemGroups {
		for _, ref := range group.ProjectReferences {
			if ref.Include != "" {
				refs = append(refs, ref.Include)
			}
		}
	}
	return refs, nil
}

// ResolveReference resolves a raw ProjectReference Include value against the
// directory of the manifest that declares it. Separators are normalized so
// Windows-authored manifests resolve on any platform. References containing
// unevaluated build variables ($(...)) cannot be resolved without a build
// context and report ok=false.
func ResolveReference(manifestDir, include string) (resolved string, ok bool) {
	normalized := strings.ReplaceAll(include, `\`, `/`)
	if strings.Contains(normalized, "$(") && strings.Contains(normalized, ")") {
		return "", false
	}
	return filepath.Join(manifestDir, filepath.FromSlash(normalized)), true
}
