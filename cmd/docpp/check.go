package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/c360studio/docpp/directive"
	"github.com/c360studio/docpp/input"
)

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [input ...]",
		Short: "Verify that every directive in the inputs resolves",
		Long: `Check scans the inputs like a normal run but writes no output. Every
directive line is resolved and rendered. Unlike processing, which stops at
the first failure, check reports every failing directive with its source
and line number, then exits non-zero if there were any.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*opts)
			if err != nil {
				return err
			}
			paths, err := input.Expand(args)
			if err != nil {
				return err
			}
			return app.check(paths, cmd.OutOrStdout())
		},
	}
}

// check resolves and renders every directive in the inputs, reporting all
// failures instead of stopping at the first.
func (a *App) check(paths []string, out io.Writer) error {
	src := input.Open(paths)
	defer src.Close()

	var directives, failures int
	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		d, ok := directive.Match(line.Text)
		if !ok {
			continue
		}
		directives++

		if _, err := a.registry.Render(d.Class, d.KindKey()); err != nil {
			failures++
			fmt.Fprintf(out, "%s:%d: %v\n", line.Source, line.Number, err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d directives failed", failures, directives)
	}

	a.logger.Info("All directives resolve", "directives", directives)
	return nil
}
