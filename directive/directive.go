// Package directive provides recognition of substitution directives in
// documentation source lines.
//
// A directive occupies an entire line and has the form @CLASS_KIND@, where
// CLASS is one or more uppercase letters or underscores and KIND is one or
// more uppercase letters. The class match is greedy, so the kind is always
// the maximal trailing run of uppercase letters: in @QUERY_FIELDS_NODE@ the
// class is QUERY_FIELDS and the kind is NODE.
package directive

import (
	"regexp"
	"strings"
)

// linePattern matches a complete directive line after its newline has been
// trimmed. The greedy class group leaves the kind as the trailing letter run.
var linePattern = regexp.MustCompile(`^@([A-Z_]+)_([A-Z]+)@$`)

// Directive is a recognized substitution request extracted from one input
// line. It is built transiently per line and consumed immediately.
type Directive struct {
	// Class names the data source and render function to use.
	Class string

	// Kind selects a record set within the class, as written in the input.
	Kind string
}

// KindKey returns the lowercased kind used to look up records.
func (d Directive) KindKey() string {
	return strings.ToLower(d.Kind)
}

// String returns the directive in its input form.
func (d Directive) String() string {
	return "@" + d.Class + "_" + d.Kind + "@"
}

// Match reports whether line is exactly a directive and extracts its parts.
// At most one trailing newline is trimmed before matching; any other
// surrounding text, including a carriage return left by CRLF input, makes
// the line a non-match. Match cannot fail: a malformed line is simply not a
// directive and passes through.
func Match(line string) (Directive, bool) {
	line = strings.TrimSuffix(line, "\n")
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Directive{}, false
	}
	return Directive{Class: m[1], Kind: m[2]}, true
}
