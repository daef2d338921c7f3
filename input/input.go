// Package input assembles an ordered line stream over one or more text
// sources. Files are read in argument order, "-" or an empty argument list
// selects standard input, and lines keep their raw terminators so
// non-directive content can be copied through byte for byte.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// StdinName is the source name reported for lines read from standard input.
const StdinName = "<stdin>"

// Line is one raw input line together with its origin.
type Line struct {
	// Text is the line including its terminator. The final line of a
	// source may lack one.
	Text string

	// Source names the file the line came from, or StdinName.
	Source string

	// Number is the 1-based line number within Source.
	Number int
}

// IOError reports a source that could not be opened or read.
type IOError struct {
	Source string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Source, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type source struct {
	name string
	open func() (io.ReadCloser, error)
}

// Stream yields lines from a sequence of sources. Each source is opened
// lazily when the previous one is exhausted, so a missing file is only
// reported when the stream reaches it, after everything before it has been
// processed.
type Stream struct {
	sources []source
	index   int
	current io.ReadCloser
	reader  *bufio.Reader
	name    string
	lineno  int
}

// Open prepares a stream over the named files in order. An empty path list
// or the path "-" reads standard input.
func Open(paths []string) *Stream {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		sources = append(sources, fileSource(path))
	}
	return &Stream{sources: sources}
}

// FromReader adapts an already open reader as a single-source stream. This
// is the seam for driving the processor without touching the filesystem.
func FromReader(name string, r io.Reader) *Stream {
	return &Stream{sources: []source{{
		name: name,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	}}}
}

func fileSource(path string) source {
	if path == "-" {
		return source{
			name: StdinName,
			open: func() (io.ReadCloser, error) {
				return io.NopCloser(os.Stdin), nil
			},
		}
	}
	return source{
		name: path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Next returns the next line across all sources. It returns io.EOF after
// the final line of the last source, and an IOError if a source cannot be
// opened or read.
func (s *Stream) Next() (Line, error) {
	for {
		if s.reader == nil {
			if s.index >= len(s.sources) {
				return Line{}, io.EOF
			}
			src := s.sources[s.index]
			s.index++
			rc, err := src.open()
			if err != nil {
				return Line{}, &IOError{Source: src.name, Err: err}
			}
			s.current = rc
			s.reader = bufio.NewReader(rc)
			s.name = src.name
			s.lineno = 0
		}

		text, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			name := s.name
			s.closeCurrent()
			return Line{}, &IOError{Source: name, Err: err}
		}
		if text == "" {
			// Source exhausted, move to the next one.
			s.closeCurrent()
			continue
		}

		s.lineno++
		line := Line{Text: text, Source: s.name, Number: s.lineno}
		if errors.Is(err, io.EOF) {
			// Final line without a terminator.
			s.closeCurrent()
		}
		return line, nil
	}
}

// Close releases the currently open source. It is safe to call at any
// point, including after Next returned io.EOF.
func (s *Stream) Close() error {
	s.closeCurrent()
	return nil
}

// closeCurrent closes the open source, ignoring close errors on what is a
// read-only handle.
func (s *Stream) closeCurrent() {
	if s.current != nil {
		_ = s.current.Close()
	}
	s.current = nil
	s.reader = nil
}
