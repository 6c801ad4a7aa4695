package abnf

import "strings"

// treeOps are the AST navigation operation names a production is not
// allowed to shadow.
var treeOps = map[string]bool{
	"parent":        true,
	"child":         true,
	"sibling":       true,
	"children":      true,
	"count":         true,
	"find":          true,
	"last_child":    true,
	"depth":         true,
	"len":           true,
	"text":          true,
	"stripped_text": true,
	"string":        true,
}

// NormalizeName maps an ABNF rule name to its grammar identifier: the name
// is lowercased and dashes become underscores. Identifiers that would
// collide with a tree navigation operation get a "p_" prefix. The mapping
// is total and deterministic, so every occurrence of a rule name lands on
// the same production.
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "-", "_")
	if treeOps[s] {
		s = "p_" + s
	}
	return s
}
