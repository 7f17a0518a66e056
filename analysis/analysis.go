// Package analysis orchestrates full runs: it feeds targets into the
// consumer funnel, decorates the survivors with pipeline labels and optional
// summaries, and produces sorted report records.
package analysis

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/scatterhq/scatter/consumers"
	"github.com/scatterhq/scatter/report"
	"github.com/scatterhq/scatter/summarize"
)

// Options carries the run-wide collaborators shared by all modes.
type Options struct {
	// Scope is the root directory searched for consuming projects.
	Scope string
	// Pipelines maps consumer project names to pipeline labels.
	Pipelines map[string]string
	// Summarizer, when non-nil, generates per-file summaries for the
	// relevant files of every consumer.
	Summarizer *summarize.Summarizer
}

// buildRecords converts funnel matches for one target into report records.
func buildRecords(ctx context.Context, opts Options, log *slog.Logger,
	targetName, targetPath, triggeringType string, matches []consumers.ConsumerMatch) []report.Record {

	records := make([]report.Record, 0, len(matches))
	for _, match := range matches {
		var summaries map[string]string
		if opts.Summarizer != nil {
			summaries = summarizeFiles(ctx, opts, log, match.Files)
		}

		records = append(records, report.Record{
			TargetProjectName:     targetName,
			TargetProjectPath:     targetPath,
			TriggeringType:        triggeringType,
			ConsumerProjectName:   match.Name,
			ConsumerProjectPath:   scopeRelative(opts.Scope, match.ManifestPath),
			PipelineName:          opts.Pipelines[match.Name],
			ConsumerFileSummaries: summaries,
		})
	}
	return records
}

// summarizeFiles summarizes each relevant file, keyed by scope-relative path.
// Unreadable files get the read-error sentinel; nothing here is fatal.
func summarizeFiles(ctx context.Context, opts Options, log *slog.Logger, files []string) map[string]string {
	summaries := make(map[string]string, len(files))
	for _, file := range files {
		key := scopeRelative(opts.Scope, file)
		content, err := os.ReadFile(file)
		if err != nil {
			log.Warn("could not read file for summarization", "path", file, "error", err)
			summaries[key] = summarize.SummaryReadError
			continue
		}
		summaries[key] = opts.Summarizer.SummarizeSource(ctx, string(content), file)
	}
	return summaries
}

// scopeRelative renders a path relative to the search scope with forward
// slashes, falling back to the path itself when it lies outside the scope.
func scopeRelative(scope, path string) string {
	rel, err := filepath.Rel(scope, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
