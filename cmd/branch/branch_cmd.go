package branch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scatterhq/scatter/analysis"
	"github.com/scatterhq/scatter/internal/cliutil"
	"github.com/scatterhq/scatter/pipeline"
	"github.com/scatterhq/scatter/vcs"
)

var repoPath string
var baseBranch string
var searchScope string
var className string
var methodName string
var pipelineCSV string
var outputFile string
var summarizeConsumers bool
var googleAPIKey string
var geminiModel string

// BranchCmd represents the branch command
var BranchCmd = &cobra.Command{
	Use:   "branch <feature-branch>",
	Short: "Find the consumers impacted by a feature branch's changes",
	Long: `Diff a feature branch against its merge base with a base branch, map the
changed C# files to their owning projects inside the branch's commit tree,
extract the type declarations they change, and find the consumers of every
(project, type) pair.

Example usage:
  scatter branch feature/payments
  scatter branch feature/payments -b develop -r /path/to/repo
  scatter branch feature/payments --class-name Invoice --method-name Total
  scatter branch feature/payments --output-file impact.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := cliutil.Logger(cmd)
		ctx := cmd.Context()
		featureBranch := args[0]

		root, err := vcs.OpenRepository(repoPath)
		if err != nil {
			return err
		}

		// The repository root is the default search scope in branch mode.
		scopeInput := searchScope
		if scopeInput == "" {
			scopeInput = root
		}
		scope, err := cliutil.ResolveScope(scopeInput)
		if err != nil {
			return err
		}
		if methodName != "" && className == "" {
			log.Warn("ignoring --method-name because --class-name was not provided")
			methodName = ""
		}

		opts := analysis.Options{
			Scope:      scope,
			Pipelines:  pipeline.Load(pipelineCSV, log),
			Summarizer: cliutil.NewSummarizer(ctx, summarizeConsumers, googleAPIKey, geminiModel, log),
		}

		records, err := analysis.AnalyzeBranch(ctx, analysis.BranchQuery{
			RepoPath:      root,
			FeatureBranch: featureBranch,
			BaseBranch:    baseBranch,
			TypeName:      className,
			MethodName:    methodName,
		}, opts, log)
		if err != nil {
			return err
		}

		preamble := []string{
			"Mode: Git Branch Analysis",
			fmt.Sprintf("Branch: '%s' vs '%s' in Repo: %s", featureBranch, baseBranch, root),
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
	BranchCmd.Flags().StringVarP(&repoPath, "repo-path", "r", ".", "Path to the Git repository")
	BranchCmd.Flags().StringVarP(&baseBranch, "base-branch", "b", "main", "Base branch to compare against")
	BranchCmd.Flags().StringVarP(&searchScope, "search-scope", "s", "", "Root directory to search for consuming projects (default: repository root)")
	BranchCmd.Flags().StringVar(&className, "class-name", "", "Analyze only this type if found in the changes")
	BranchCmd.Flags().StringVar(&methodName, "method-name", "", "Check for usage of this specific method (requires --class-name)")
	BranchCmd.Flags().StringVar(&pipelineCSV, "pipeline-csv", "", "CSV mapping 'Project Name' to 'Pipeline Name'")
	BranchCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write combined results to a CSV file instead of the console")
	BranchCmd.Flags().BoolVar(&summarizeConsumers, "summarize-consumers", false, "Summarize relevant consumer files with the Gemini API")
	BranchCmd.Flags().StringVar(&googleAPIKey, "google-api-key", "", "Google API key for Gemini (default: GOOGLE_API_KEY env)")
	BranchCmd.Flags().StringVar(&geminiModel, "gemini-model", "gemini-1.5-flash", "Gemini model used for summarization")
}
