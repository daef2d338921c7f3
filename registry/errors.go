package registry

import "fmt"

// UnknownClassError reports a directive whose class has no registry entry.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown directive class %q", e.Class)
}

// UnknownKindError reports a directive whose class resolved to a source
// that holds no records for the requested kind.
type UnknownKindError struct {
	Class string
	Kind  string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown kind %q for directive class %q", e.Kind, e.Class)
}

// RenderError reports a render function failure for a directive that
// resolved to a record set.
type RenderError struct {
	Class string
	Kind  string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s kind %q: %v", e.Class, e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
