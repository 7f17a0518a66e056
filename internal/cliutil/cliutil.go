// Package cliutil holds the small bits of plumbing shared by the scatter
// subcommands: logger construction, scope and target resolution, and report
// output selection.
package cliutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scatterhq/scatter/internal/slogutil"
	"github.com/scatterhq/scatter/project"
	"github.com/scatterhq/scatter/report"
	"github.com/scatterhq/scatter/summarize"
)

// Logger builds the run logger from the root command's --verbose flag.
func Logger(cmd *cobra.Command) *slog.Logger {
	verbose := false
	if f := cmd.Flag("verbose"); f != nil {
		verbose = f.Value.String() == "true"
	}
	return slogutil.NewStderrLogger(slogutil.LevelFromVerbose(verbose))
}

// ResolveScope validates and absolutizes the search scope directory.
func ResolveScope(scope string) (string, error) {
	abs, err := filepath.Abs(scope)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("search scope not accessible: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("search scope is not a directory: %s", abs)
	}
	return abs, nil
}

// ResolveTargetManifest accepts a manifest path or a directory containing one
// and returns the manifest's absolute path. For a directory, the first
// manifest found wins.
func ResolveTargetManifest(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("invalid target project path '%s': %w", target, err)
	}

	if !info.IsDir() {
		if !project.IsManifest(abs) {
			return "", fmt.Errorf("invalid target project path '%s': must be a %s file or a directory containing one",
				target, project.ManifestExtension)
		}
		return abs, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() && project.IsManifest(entry.Name()) {
			return filepath.Join(abs, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no %s file found in the target directory: %s", project.ManifestExtension, abs)
}

// NewSummarizer constructs the Gemini summarizer when summarization was
// requested. A configuration failure disables summarization instead of
// aborting the run.
func NewSummarizer(ctx context.Context, enabled bool, apiKey, model string, log *slog.Logger) *summarize.Summarizer {
	if !enabled {
		return nil
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		log.Error("Google API key not found: set GOOGLE_API_KEY or use --google-api-key; summarization disabled")
		return nil
	}

	s, err := summarize.New(ctx, apiKey, model, log)
	if err != nil {
		log.Error("Gemini configuration failed, summarization disabled", "error", err)
		return nil
	}
	log.Info("Gemini configured", "model", model)
	return s
}

// WriteReport writes records to the output file as CSV, or renders the
// console report to stdout when no output file was requested.
func WriteReport(records []report.Record, preamble []string, outputFile string, log *slog.Logger) error {
	if outputFile == "" {
		report.WriteConsole(os.Stdout, preamble, records)
		return nil
	}

	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := report.WriteCSV(f, records); err != nil {
		return fmt.Errorf("failed to write output CSV file: %w", err)
	}
	log.Info("wrote results", "count", len(records), "file", outputFile)
	return nil
}

// FilterDescription renders the applied symbol filters for report preambles.
func FilterDescription(typeName, methodName string) string {
	var filters []string
	if typeName != "" {
		filters = append(filters, fmt.Sprintf("Class Filter: '%s'", typeName))
	}
	if methodName != "" {
		filters = append(filters, fmt.Sprintf("Method Filter: '%s'", methodName))
	}
	if len(filters) == 0 {
		return "Filters Applied: None (or only ProjectReference/Namespace level)"
	}
	return "Filters Applied: " + strings.Join(filters, ", ")
}
