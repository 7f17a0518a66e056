package lexical

import "strings"

// EnclosingDeclaration returns the name of the nearest type declaration that
// textually precedes offset, binding a free-text match (for example a stored
// procedure literal) to its containing type. The second return is false when
// no declaration precedes the offset.
//
// This is a backward nearest-neighbor search, not a scope-aware one: brace
// balance is not verified, so a reference located after a type closes but
// before the next declaration opens is attributed to the prior type. Unlike
// ExtractDeclarations, the captured name is not comma-split, since nested
// generic constraints are more common at this matching depth.
func EnclosingDeclaration(content string, offset int) (string, bool) {
	if offset < 0 {
		return "", false
	}
	if offset > len(content) {
		offset = len(content)
	}

	matches := typeDeclarationPattern.FindAllStringSubmatchIndex(content[:offset], -1)
	if len(matches) == 0 {
		return "", false
	}

	// Matches come back in ascending start order; the last one is the
	// nearest declaration before the offset.
	nearest := matches[len(matches)-1]
	name := content[nearest[2]:nearest[3]]
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}
