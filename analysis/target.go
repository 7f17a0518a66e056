package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scatterhq/scatter/consumers"
	"github.com/scatterhq/scatter/project"
	"github.com/scatterhq/scatter/report"
)

// TargetQuery is one explicit target-project analysis request.
type TargetQuery struct {
	// ManifestPath is the target project's manifest file.
	ManifestPath string
	// NamespaceOverride, when set, replaces automatic namespace derivation.
	NamespaceOverride string
	// TypeName and MethodName optionally narrow the funnel's deepest stages.
	TypeName   string
	MethodName string
}

// AnalyzeTarget resolves the consumers of one explicitly targeted project.
func AnalyzeTarget(ctx context.Context, query TargetQuery, opts Options, log *slog.Logger) ([]report.Record, error) {
	targetName := project.Stem(query.ManifestPath)

	namespace := query.NamespaceOverride
	if namespace != "" {
		log.Info("using explicitly provided target namespace", "namespace", namespace)
	} else {
		derived, err := project.DeriveNamespace(query.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("could not derive target namespace (specify one with --target-namespace): %w", err)
		}
		namespace = derived
		log.Info("derived target namespace", "namespace", namespace)
	}

	funnel := consumers.NewFunnel(opts.Scope, log)
	matches := funnel.FindConsumers(consumers.Target{
		ManifestPath: query.ManifestPath,
		Namespace:    namespace,
		TypeName:     query.TypeName,
		MethodName:   query.MethodName,
	})
	log.Info("consumer analysis complete", "target", targetName, "consumers", len(matches))

	records := buildRecords(ctx, opts, log,
		targetName,
		scopeRelative(opts.Scope, query.ManifestPath),
		triggerDescription(query.TypeName, query.MethodName),
		matches)

	report.Sort(records)
	return records, nil
}

// triggerDescription names the precision level of a target-mode match.
func triggerDescription(typeName, methodName string) string {
	switch {
	case typeName != "" && methodName != "":
		return typeName + "." + methodName
	case typeName != "":
		return typeName
	default:
		return "N/A (Project Reference)"
	}
}
