// Package process drives directive substitution over an input stream.
//
// The driver is a single-threaded loop over input lines. It is in one of
// three phases at any moment: reading the next input line, draining the
// rendered replacement for a directive line, or done at end of input. A
// directive's replacement is written completely, each rendered line
// followed by a newline, before the next input line is read. Every other
// line is copied through byte for byte. Nothing is buffered beyond the
// current line and one rendered block, so output is a faithful prefix of
// the result even when a run aborts partway.
package process

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/c360studio/docpp/directive"
	"github.com/c360studio/docpp/input"
	"github.com/c360studio/docpp/registry"
)

// LineError locates a substitution failure in its input source.
type LineError struct {
	Source string
	Line   int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Stats counts the work done by one run.
type Stats struct {
	// Lines is the number of input lines consumed.
	Lines int

	// Directives is the number of directive lines replaced.
	Directives int

	// Rendered is the number of replacement lines written.
	Rendered int
}

// Processor streams lines from an input source to an output writer,
// replacing directive lines with their rendered blocks.
type Processor struct {
	registry *registry.Registry
	logger   *slog.Logger
	stats    Stats
}

// New creates a processor over a configured registry.
func New(reg *registry.Registry, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{registry: reg, logger: logger}
}

// Run consumes src to completion, writing to dst. The first failure stops
// the run; whatever was written before it stays flushed and intact, and the
// failing line is never partially written. Failures during substitution are
// reported as a LineError naming the source and line.
func (p *Processor) Run(src *input.Stream, dst io.Writer) error {
	p.stats = Stats{}
	out := bufio.NewWriter(dst)

	err := p.run(src, out)
	if ferr := out.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("flush output: %w", ferr)
	}
	return err
}

func (p *Processor) run(src *input.Stream, out *bufio.Writer) error {
	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		p.stats.Lines++

		d, ok := directive.Match(line.Text)
		if !ok {
			if _, err := out.WriteString(line.Text); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		rendered, err := p.registry.Render(d.Class, d.KindKey())
		if err != nil {
			return &LineError{Source: line.Source, Line: line.Number, Err: err}
		}
		for _, text := range rendered {
			if _, err := out.WriteString(text); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if err := out.WriteByte('\n'); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}

		p.stats.Directives++
		p.stats.Rendered += len(rendered)
		p.logger.Debug("Replaced directive",
			slog.String("directive", d.String()),
			slog.String("source", line.Source),
			slog.Int("line", line.Number),
			slog.Int("rendered_lines", len(rendered)))
	}
}

// Stats returns the counters for the most recent run.
func (p *Processor) Stats() Stats {
	return p.stats
}
