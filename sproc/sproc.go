// Package sproc finds source files referencing a stored-procedure name and
// binds each reference to the project and type declaration containing it.
package sproc

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/scatterhq/scatter/consumers"
	"github.com/scatterhq/scatter/lexical"
	"github.com/scatterhq/scatter/project"
	"github.com/scatterhq/scatter/treewalk"
)

// defaultPatternTemplate matches the procedure name enclosed in quotes, with
// an optional dotted qualifier prefix (schema or database qualification).
const defaultPatternTemplate = `"(?:[A-Za-z0-9_]+\.)*%s"`

// Bindings maps manifest path -> declared type name -> referencing files, in
// discovery order.
type Bindings map[string]map[string][]string

// BuildPattern compiles the case-insensitive search pattern for a procedure
// name. A custom template must contain exactly one %s substitution point;
// a malformed template is reported and the default pattern is used instead.
func BuildPattern(name, template string, log *slog.Logger) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)

	if template != "" {
		if strings.Count(template, "%s") != 1 {
			log.Error("custom pattern template must contain exactly one %s placeholder, falling back to default",
				"template", template)
		} else if re, err := regexp.Compile(`(?i)` + fmt.Sprintf(template, quoted)); err != nil {
			log.Error("custom pattern template does not compile, falling back to default",
				"template", template, "error", err)
		} else {
			return re
		}
	}

	return regexp.MustCompile(`(?i)` + fmt.Sprintf(defaultPatternTemplate, quoted))
}

// ResolveBindings scans every source file in scope for the pattern and binds
// each referencing file to its owning project and enclosing type declaration.
//
// Only the first match in a file is bound: subsequent matches in the same
// file share its attribution. Files whose owning project cannot be resolved
// are skipped with a warning; files with a match but no enclosing declaration
// are dropped from the mapping (logged, not fatal).
func ResolveBindings(scope string, pattern *regexp.Regexp, log *slog.Logger) Bindings {
	nav := treewalk.NewFSNavigator()
	cache := consumers.NewDirectoryScanCache(log)
	bindings := make(Bindings)

	for _, file := range cache.SourceFiles(scope) {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Warn("could not read source file", "path", file, "error", err)
			continue
		}

		loc := pattern.FindIndex(content)
		if loc == nil {
			continue
		}

		manifest, ok := project.FindProjectFile(nav, file, log)
		if !ok {
			log.Warn("skipping match with no owning project", "file", file)
			continue
		}

		typeName, ok := lexical.EnclosingDeclaration(string(content), loc[0])
		if !ok {
			log.Info("match has no enclosing type declaration, dropping", "file", file)
			continue
		}

		manifest = project.CanonicalPath(manifest)
		if bindings[manifest] == nil {
			bindings[manifest] = make(map[string][]string)
		}
		bindings[manifest][typeName] = append(bindings[manifest][typeName], file)
	}

	return bindings
}
