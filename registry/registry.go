// Package registry provides the lookup table that resolves directive
// classes to data sources and render functions.
//
// The registry is configured once at startup and treated as read-only while
// input is processed. Resolution is a three step pipeline: class to source,
// lowercased kind to record set, record set through the source's render
// function to output lines. Each step has a dedicated error type so a
// failure can be reported precisely.
package registry

import (
	"sort"
	"sync"
)

// RecordSet is the opaque payload stored under a class and kind. Its shape
// is owned by the source that produced it; the registry never inspects it,
// only hands it to that source's render function.
type RecordSet any

// RenderFunc turns a record set into output lines. The returned lines carry
// no terminators. Implementations must be deterministic and produce a
// finite sequence.
type RenderFunc func(records RecordSet) ([]string, error)

// Source supplies record sets by kind for one directive class and knows how
// to render them.
type Source interface {
	// Records returns the record set stored under a lowercased kind.
	Records(kind string) (RecordSet, bool)

	// Render turns a record set from this source into output lines.
	Render(records RecordSet) ([]string, error)

	// Kinds returns the available kinds in sorted order.
	Kinds() []string
}

// Table is a plain kind to record set mapping, the simplest way to back a
// directive class.
type Table map[string]RecordSet

type tableSource struct {
	records Table
	render  RenderFunc
}

// NewTableSource pairs a kind table with a render function to form a
// Source. The table is used as given; callers must not mutate it after
// registration.
func NewTableSource(records Table, render RenderFunc) Source {
	return &tableSource{records: records, render: render}
}

func (s *tableSource) Records(kind string) (RecordSet, bool) {
	rs, ok := s.records[kind]
	return rs, ok
}

func (s *tableSource) Render(records RecordSet) ([]string, error) {
	return s.render(records)
}

func (s *tableSource) Kinds() []string {
	kinds := make([]string, 0, len(s.records))
	for kind := range s.records {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Registry maps directive class names to their sources.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register associates a class name with a source. Registering a class that
// already exists replaces the previous source.
func (r *Registry) Register(class string, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[class] = src
}

// Lookup returns the source registered for a class.
func (r *Registry) Lookup(class string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[class]
	return src, ok
}

// Classes returns all registered class names in sorted order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	classes := make([]string, 0, len(r.sources))
	for class := range r.sources {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// Render resolves a class and lowercased kind to a record set and renders
// it. The returned lines are exactly the render function's output in order.
// Failures are reported as UnknownClassError, UnknownKindError, or
// RenderError depending on the step that failed.
func (r *Registry) Render(class, kind string) ([]string, error) {
	src, ok := r.Lookup(class)
	if !ok {
		return nil, &UnknownClassError{Class: class}
	}
	records, ok := src.Records(kind)
	if !ok {
		return nil, &UnknownKindError{Class: class, Kind: kind}
	}
	lines, err := src.Render(records)
	if err != nil {
		return nil, &RenderError{Class: class, Kind: kind, Err: err}
	}
	return lines, nil
}
