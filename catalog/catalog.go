// Package catalog provides the data sources behind the stock directive
// classes: documented constant values and queryable field definitions.
// Catalogs are loaded from YAML files and grouped by kind; each catalog
// implements registry.Source for one directive class.
package catalog

import (
	"fmt"
	"sort"

	"github.com/c360studio/docpp/registry"
	"github.com/c360studio/docpp/render"
)

// Value is one documented constant value.
type Value struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc"`
}

// Values holds documented constant values grouped by kind. Records render
// as an RST definition list in catalog file order, so the catalog author
// controls the presentation order.
type Values struct {
	kinds map[string][]Value
}

// NewValues builds a Values catalog from a kind grouping.
func NewValues(kinds map[string][]Value) *Values {
	if kinds == nil {
		kinds = make(map[string][]Value)
	}
	return &Values{kinds: kinds}
}

// Records returns the values stored under a kind.
func (c *Values) Records(kind string) (registry.RecordSet, bool) {
	values, ok := c.kinds[kind]
	if !ok {
		return nil, false
	}
	return values, true
}

// Render emits the record set as an RST definition list.
func (c *Values) Render(records registry.RecordSet) ([]string, error) {
	values, ok := records.([]Value)
	if !ok {
		return nil, fmt.Errorf("not a value record set: %T", records)
	}
	items := make([]render.Item, len(values))
	for i, v := range values {
		items[i] = render.Item{Name: v.Name, Doc: v.Doc}
	}
	return render.DefinitionList(items)
}

// Kinds returns the available kinds in sorted order.
func (c *Values) Kinds() []string {
	return sortedKinds(c.kinds)
}

// Field is one queryable field definition.
type Field struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title,omitempty"`
	Doc   string `yaml:"doc"`
}

// Fields holds queryable field definitions grouped by kind. Records render
// as an RST definition list sorted by field name in natural order, so
// numbered fields like disk.size/2 and disk.size/10 read in sequence.
type Fields struct {
	kinds map[string][]Field
}

// NewFields builds a Fields catalog from a kind grouping.
func NewFields(kinds map[string][]Field) *Fields {
	if kinds == nil {
		kinds = make(map[string][]Field)
	}
	return &Fields{kinds: kinds}
}

// Records returns the field definitions stored under a kind.
func (c *Fields) Records(kind string) (registry.RecordSet, bool) {
	fields, ok := c.kinds[kind]
	if !ok {
		return nil, false
	}
	return fields, true
}

// Render emits the record set as an RST definition list in natural name
// order. The input slice is left untouched.
func (c *Fields) Render(records registry.RecordSet) ([]string, error) {
	fields, ok := records.([]Field)
	if !ok {
		return nil, fmt.Errorf("not a field record set: %T", records)
	}
	ordered := make([]Field, len(fields))
	copy(ordered, fields)
	sort.SliceStable(ordered, func(i, j int) bool {
		return render.NaturalLess(ordered[i].Name, ordered[j].Name)
	})

	items := make([]render.Item, len(ordered))
	for i, f := range ordered {
		items[i] = render.Item{Name: f.Name, Doc: f.Doc}
	}
	return render.DefinitionList(items)
}

// Kinds returns the available kinds in sorted order.
func (c *Fields) Kinds() []string {
	return sortedKinds(c.kinds)
}

func sortedKinds[T any](kinds map[string][]T) []string {
	names := make([]string, 0, len(kinds))
	for kind := range kinds {
		names = append(names, kind)
	}
	sort.Strings(names)
	return names
}
