// Package consumers resolves which projects in a search scope depend on a
// target project, narrowing a repository-wide candidate set through four
// stages of increasing lexical precision.
package consumers

// Stage is one of the four funnel precision levels, totally ordered from the
// widest (a declared project reference) to the narrowest (a call-site match).
type Stage int

const (
	StageProjectReference Stage = iota
	StageNamespaceImport
	StageTypeUsage
	StageCallSiteUsage
)

func (s Stage) String() string {
	switch s {
	case StageProjectReference:
		return "project-reference"
	case StageNamespaceImport:
		return "namespace-import"
	case StageTypeUsage:
		return "type-usage"
	case StageCallSiteUsage:
		return "call-site-usage"
	default:
		return "unknown"
	}
}

// ConsumerMatch is one surviving consumer together with the deepest stage it
// reached and the files that satisfied that stage's filter, in discovery
// order. The funnel only narrows: a deeper stage's file set is always a
// subset of the previous stage's set for the same consumer.
type ConsumerMatch struct {
	// ManifestPath is the consumer's manifest, in canonical form.
	ManifestPath string
	// Name is the consumer's manifest filename stem.
	Name string

	Stage Stage
	Files []string
}
