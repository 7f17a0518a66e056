package consumers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scatterhq/scatter/analysis"
	"github.com/scatterhq/scatter/consumers"
	"github.com/scatterhq/scatter/internal/cliutil"
	"github.com/scatterhq/scatter/pipeline"
)

var targetProject string
var searchScope string
var className string
var methodName string
var targetNamespace string
var pipelineCSV string
var outputFile string
var graphOutput string
var summarizeConsumers bool
var googleAPIKey string
var geminiModel string

// ConsumersCmd represents the consumers command
var ConsumersCmd = &cobra.Command{
	Use:   "consumers",
	Short: "Find the projects consuming a target project, type, or method",
	Long: `Find all projects in a search scope that consume a target project, at
increasing levels of precision: declared project reference, namespace import,
type usage, and call-site usage.

Example usage:
  scatter consumers -t ./src/Core/Core.csproj -s ./src
  scatter consumers -t ./src/Core -s ./src --class-name Widget
  scatter consumers -t ./src/Core -s ./src --class-name Widget --method-name Render
  scatter consumers -t ./src/Core -s ./src --output-file impact.csv
  scatter consumers -t ./src/Core -s ./src --graph-output refs.gv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := cliutil.Logger(cmd)
		ctx := cmd.Context()

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

		// Optional scope-wide reference graph export
		if graphOutput != "" {
			f, err := os.Create(graphOutput)
			if err != nil {
				return fmt.Errorf("failed to create graph output file: %w", err)
			}
			defer f.Close()
			if err := consumers.WriteReferenceGraphDOT(f, scope, log); err != nil {
				return fmt.Errorf("failed to export reference graph: %w", err)
			}
			log.Info("wrote reference graph", "file", graphOutput)
		}

		opts := analysis.Options{
			Scope:      scope,
			Pipelines:  pipeline.Load(pipelineCSV, log),
			Summarizer: cliutil.NewSummarizer(ctx, summarizeConsumers, googleAPIKey, geminiModel, log),
		}

		records, err := analysis.AnalyzeTarget(ctx, analysis.TargetQuery{
			ManifestPath:      manifest,
			NamespaceOverride: targetNamespace,
			TypeName:          className,
			MethodName:        methodName,
		}, opts, log)
		if err != nil {
			return err
		}

		preamble := []string{
			"Mode: Target Project Analysis",
			fmt.Sprintf("Target Project: %s", manifest),
			fmt.Sprintf("Search Scope: %s", scope),
			cliutil.FilterDescription(className, methodName),
		}
		if opts.Summarizer != nil {
			preamble = append(preamble, fmt.Sprintf("Consumer File Summarization: ENABLED (Model: %s)", opts.Summarizer.Model()))
		}

		return cliutil.WriteReport(records, preamble, outputFile, log)
	},
}

func init() {
	ConsumersCmd.Flags().StringVarP(&targetProject, "target-project", "t", "", "Path to the target .csproj file or its directory (required)")
	ConsumersCmd.Flags().StringVarP(&searchScope, "search-scope", "s", "", "Root directory to search for consuming projects (required)")
	ConsumersCmd.Flags().StringVar(&className, "class-name", "", "Check for usage of this specific type")
	ConsumersCmd.Flags().StringVar(&methodName, "method-name", "", "Check for usage of this specific method (requires --class-name)")
	ConsumersCmd.Flags().StringVar(&targetNamespace, "target-namespace", "", "Explicit target namespace, overriding automatic derivation")
	ConsumersCmd.Flags().StringVar(&pipelineCSV, "pipeline-csv", "", "CSV mapping 'Project Name' to 'Pipeline Name'")
	ConsumersCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write combined results to a CSV file instead of the console")
	ConsumersCmd.Flags().StringVar(&graphOutput, "graph-output", "", "Also export the scope's project-reference graph as DOT to this file")
	ConsumersCmd.Flags().BoolVar(&summarizeConsumers, "summarize-consumers", false, "Summarize relevant consumer files with the Gemini API")
	ConsumersCmd.Flags().StringVar(&googleAPIKey, "google-api-key", "", "Google API key for Gemini (default: GOOGLE_API_KEY env)")
	ConsumersCmd.Flags().StringVar(&geminiModel, "gemini-model", "gemini-1.5-flash", "Gemini model used for summarization")

	_ = ConsumersCmd.MarkFlagRequired("target-project")
	_ = ConsumersCmd.MarkFlagRequired("search-scope")
}
