package sproc

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/scatterhq/scatter/internal/cliutil"
	"github.com/scatterhq/scatter/project"
	"github.com/scatterhq/scatter/sproc"
)

var searchScope string
var patternTemplate string
var outputFile string

// SprocCmd represents the sproc command
var SprocCmd = &cobra.Command{
	Use:   "sproc <procedure-name>",
	Short: "Find the projects and types referencing a stored procedure",
	Long: `Search every C# file in scope for references to a stored-procedure name
(the quoted literal, optionally schema-qualified), and bind each reference to
the project and type declaration containing it.

The --pattern template customizes the match; it must contain exactly one %s
placeholder for the procedure name, for example:

  scatter sproc usp_GetOrders -s ./src
  scatter sproc usp_GetOrders -s ./src --pattern 'CommandText\s*=\s*"%s"'
  scatter sproc usp_GetOrders -s ./src --output-file bindings.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := cliutil.Logger(cmd)
		name := args[0]

		scope, err := cliutil.ResolveScope(searchScope)
		if err != nil {
			return err
		}

		pattern := sproc.BuildPattern(name, patternTemplate, log)
		log.Info("searching for stored procedure references", "name", name, "pattern", pattern.String())

		bindings := sproc.ResolveBindings(scope, pattern, log)

		if outputFile != "" {
			return writeBindingsCSV(outputFile, scope, bindings)
		}
		printBindings(scope, name, bindings)
		return nil
	},
}

func printBindings(scope, name string, bindings sproc.Bindings) {
	fmt.Printf("--- Stored Procedure Reference Report: %s ---\n", name)
	if len(bindings) == 0 {
		fmt.Println("(None)")
		return
	}

	total := 0
	for _, manifest := range sortedKeys(bindings) {
		fmt.Printf("\nProject: %s (%s)\n", project.Stem(manifest), relOrSelf(scope, manifest))
		types := bindings[manifest]
		typeNames := make([]string, 0, len(types))
		for typeName := range types {
			typeNames = append(typeNames, typeName)
		}
		sort.Strings(typeNames)

		for _, typeName := range typeNames {
			fmt.Printf("  Type: %s\n", typeName)
			for _, file := range types[typeName] {
				fmt.Printf("    -> %s\n", relOrSelf(scope, file))
				total++
			}
		}
	}
	fmt.Printf("\n--- Total Referencing Files: %d ---\n", total)
}

func writeBindingsCSV(path, scope string, bindings sproc.Bindings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"ProjectName", "ProjectPath", "TypeName", "File"}); err != nil {
		return err
	}
	for _, manifest := range sortedKeys(bindings) {
		types := bindings[manifest]
		typeNames := make([]string, 0, len(types))
		for typeName := range types {
			typeNames = append(typeNames, typeName)
		}
		sort.Strings(typeNames)

		for _, typeName := range typeNames {
			for _, file := range types[typeName] {
				row := []string{project.Stem(manifest), relOrSelf(scope, manifest), typeName, relOrSelf(scope, file)}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func sortedKeys(bindings sproc.Bindings) []string {
	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func relOrSelf(scope, path string) string {
	rel, err := filepath.Rel(scope, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func init() {
	SprocCmd.Flags().StringVarP(&searchScope, "search-scope", "s", "", "Root directory to search for references (required)")
	SprocCmd.Flags().StringVar(&patternTemplate, "pattern", "", "Custom regex template with exactly one %s placeholder for the name")
	SprocCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write bindings to a CSV file instead of the console")

	_ = SprocCmd.MarkFlagRequired("search-scope")
}
