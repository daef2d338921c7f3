package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves glob patterns in args against the filesystem, keeping
// argument order and dropping duplicates. Literal paths and "-" pass
// through unchanged whether or not they exist; a pattern that matches
// nothing is an error, since a silently empty input would go unnoticed
// until the output is wrong.
func Expand(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, arg := range args {
		if arg == "-" || !containsGlob(arg) {
			add(arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expand pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match pattern %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return paths, nil
}

// containsGlob checks if a pattern contains glob characters, including the
// brace alternation doublestar supports.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
