// Package render emits reStructuredText fragments for catalog records.
package render

import (
	"fmt"
	"strings"
)

// Item is one name and documentation pair in a definition list.
type Item struct {
	Name string
	Doc  string
}

// DefinitionList renders items as an RST definition list: each name as an
// inline literal on its own line, followed by its documentation indented by
// two spaces. The documentation must be exactly one line; anything else
// would corrupt the indentation of the generated block.
func DefinitionList(items []Item) ([]string, error) {
	lines := make([]string, 0, len(items)*2)
	for _, item := range items {
		if item.Doc == "" || strings.ContainsAny(item.Doc, "\r\n") {
			return nil, fmt.Errorf("documentation for %q must be a single non-empty line", item.Name)
		}
		lines = append(lines, fmt.Sprintf("``%s``", item.Name))
		lines = append(lines, "  "+item.Doc)
	}
	return lines, nil
}
