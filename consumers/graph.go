package consumers

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/scatterhq/scatter/project"
)

// BuildReferenceGraph builds the directed project-reference graph of a search
// scope: one vertex per manifest (canonical path, labelled with the project
// name), one edge per declared reference that resolves to another manifest in
// the scope. Reference cycles are legal in the source data, so the graph
// permits them.
func BuildReferenceGraph(scope string, log *slog.Logger) (graphlib.Graph[string, string], error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed())

	manifests := FindManifests(scope, log)
	inScope := make(map[string]string, len(manifests))
	for _, manifest := range manifests {
		canonical := project.CanonicalPath(manifest)
		inScope[canonical] = manifest
		if err := g.AddVertex(canonical, graphlib.VertexAttribute("label", project.Stem(manifest))); err != nil {
			if !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
				return nil, err
			}
		}
	}

	for canonical, manifest := range inScope {
		refs, err := project.ProjectReferences(manifest)
		if err != nil {
			log.Warn("skipping references of unreadable manifest", "manifest", manifest, "error", err)
			continue
		}
		for _, include := range refs {
			resolved, ok := project.ResolveReference(filepath.Dir(manifest), include)
			if !ok {
				continue
			}
			target := project.CanonicalPath(resolved)
			if _, known := inScope[target]; !known || target == canonical {
				continue
			}
			if err := g.AddEdge(canonical, target); err != nil {
				if !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
					log.Warn("could not add reference edge", "from", manifest, "include", include, "error", err)
				}
			}
		}
	}

	return g, nil
}

// WriteReferenceGraphDOT renders the scope's reference graph in DOT format.
func WriteReferenceGraphDOT(w io.Writer, scope string, log *slog.Logger) error {
	g, err := BuildReferenceGraph(scope, log)
	if err != nil {
		return err
	}
	return draw.DOT(g, w)
}
