package watch

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scatterhq/scatter/analysis"
	"github.com/scatterhq/scatter/internal/cliutil"
	"github.com/scatterhq/scatter/pipeline"
)

var targetProject string
var searchScope string
var className string
var methodName string
var targetNamespace string
var pipelineCSV string

// WatchCmd represents the watch command
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run a consumer analysis whenever the search scope changes",
	Long: `Watch the search scope for source changes and re-run the target-project
consumer analysis after each change burst, printing a fresh console report.

Example usage:
  scatter watch -t ./src/Core -s ./src
  scatter watch -t ./src/Core -s ./src --class-name Widget`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := cliutil.Logger(cmd)

		manifest, err := cliutil.ResolveTargetManifest(targetProject)
		if err != nil {
			return err
		}
		scope, err := cliutil.ResolveScope(searchScope)
		if err != nil {
			return err
		}
		if methodName != "" && className == "" {
			log.Warn("ignoring --method-name because --class-name was not provided")
			methodName = ""
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := analysis.Options{
			Scope:     scope,
			Pipelines: pipeline.Load(pipelineCSV, log),
		}
		query := analysis.TargetQuery{
			ManifestPath:      manifest,
			NamespaceOverride: targetNamespace,
			TypeName:          className,
			MethodName:        methodName,
		}

		runOnce := func() {
			records, err := analysis.AnalyzeTarget(ctx, query, opts, log)
			if err != nil {
				fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
				return
			}
			preamble := []string{
				"Mode: Watch (Target Project Analysis)",
				fmt.Sprintf("Target Project: %s", manifest),
				fmt.Sprintf("Search Scope: %s", scope),
				cliutil.FilterDescription(className, methodName),
			}
			if err := cliutil.WriteReport(records, preamble, "", log); err != nil {
				fmt.Fprintf(os.Stderr, "report failed: %v\n", err)
			}
		}

		runOnce()
		return watchAndRerun(ctx, scope, log, runOnce)
	},
}

func init() {
	WatchCmd.Flags().StringVarP(&targetProject, "target-project", "t", "", "Path to the target .csproj file or its directory (required)")
	WatchCmd.Flags().StringVarP(&searchScope, "search-scope", "s", "", "Root directory to watch and search (required)")
	WatchCmd.Flags().StringVar(&className, "class-name", "", "Check for usage of this specific type")
	WatchCmd.Flags().StringVar(&methodName, "method-name", "", "Check for usage of this specific method (requires --class-name)")
	WatchCmd.Flags().StringVar(&targetNamespace, "target-namespace", "", "Explicit target namespace, overriding automatic derivation")
	WatchCmd.Flags().StringVar(&pipelineCSV, "pipeline-csv", "", "CSV mapping 'Project Name' to 'Pipeline Name'")

	_ = WatchCmd.MarkFlagRequired("target-project")
	_ = WatchCmd.MarkFlagRequired("search-scope")
}
