package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scatterhq/scatter/cmd/branch"
	"github.com/scatterhq/scatter/cmd/consumers"
	"github.com/scatterhq/scatter/cmd/sproc"
	"github.com/scatterhq/scatter/cmd/watch"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// verbose enables DEBUG level logging across all subcommands
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Analyze which .NET projects consume a changed project, type, or stored procedure",
	Long: `Scatter performs lexical impact analysis over a multi-project .NET source
tree: given a changed or targeted unit of code (a project, a declared type, a
method, or a stored-procedure name), it finds which other projects in the
repository depend on it, at increasing levels of precision.

Use 'scatter --help' to see all available commands, or 'scatter <command> --help'
for detailed information about a specific command.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env in the working directory may carry GOOGLE_API_KEY.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(consumers.ConsumersCmd)
	rootCmd.AddCommand(branch.BranchCmd)
	rootCmd.AddCommand(sproc.SprocCmd)
	rootCmd.AddCommand(watch.WatchCmd)

	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed DEBUG level logging")
}
