// Package lexical extracts C# type declarations from raw source text with
// regular expressions. It is a deliberate approximation of parsing: it can
// over- or under-match around nested types, keyword-shaped text in comments,
// and preprocessor-conditional code, and performs no correction pass.
package lexical

import (
	"regexp"
	"strings"
)

// typeDeclarationPattern matches a line-anchored C# type declaration: an
// optional access modifier, any modifier keywords, one of the four type-kind
// keywords, then the name token, terminated by an inheritance colon, an
// opening brace, a where clause, or the start of a generic parameter list.
var typeDeclarationPattern = regexp.MustCompile(
	`(?m)^\s*(?:public|internal|private|protected)?\s*` +
		`(?:static\s+|abstract\s+|sealed\s+|partial\s+)*` +
		`(?:class|struct|interface|enum)\s+` +
		`([A-Za-z_][A-Za-z0-9_<>,\s]*?)` +
		`\s*(?::|\{|where|<)`)

// ExtractDeclarations returns the set of base type names declared in content.
// Generic parameter lists and multi-declaration artifacts are stripped from
// the captured name. Duplicates collapse; order follows first appearance.
func ExtractDeclarations(content string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, match := range typeDeclarationPattern.FindAllStringSubmatch(content, -1) {
		name := baseTypeName(match[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

// baseTypeName reduces a captured declaration name to its base form:
// everything from the first '<' (generic parameters) and the first ','
// (multi-declaration artifacts) is dropped.
func baseTypeName(captured string) string {
	name := captured
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
