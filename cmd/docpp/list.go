package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured directive classes and their kinds",
		Long: `List prints every directive the current configuration can replace, in the
form it would take in an input document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*opts)
			if err != nil {
				return err
			}
			return app.list(cmd.OutOrStdout())
		},
	}
}

// list prints each registered class with the directives it serves.
func (a *App) list(out io.Writer) error {
	classes := a.registry.Classes()
	if len(classes) == 0 {
		fmt.Fprintln(out, "No directive classes configured.")
		return nil
	}

	for _, class := range classes {
		src, ok := a.registry.Lookup(class)
		if !ok {
			continue
		}
		fmt.Fprintln(out, class)
		for _, kind := range src.Kinds() {
			fmt.Fprintf(out, "  @%s_%s@\n", class, strings.ToUpper(kind))
		}
	}
	return nil
}
