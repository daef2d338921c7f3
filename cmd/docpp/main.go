// Package main provides the docpp binary entry point.
// Docpp is a documentation preprocessor that replaces directive lines of
// the form @CLASS_KIND@ with blocks rendered from catalog files.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/docpp/watch"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "docpp"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "docpp [flags] [input ...]",
		Short: "Documentation directive preprocessor",
		Long: `Docpp copies documentation source text to its output, replacing each line
that consists solely of a directive in the form @CLASS_KIND@ with a block
generated from a configured catalog. Every other line passes through
byte for byte.

Inputs are read in order and may be files, glob patterns (** included), or
"-" for standard input; with no inputs, standard input is read. Output goes
to standard output unless --output is given.

Directive classes are wired to catalog files in docpp.yaml, discovered in
the current or a parent directory unless --config points elsewhere.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputs = args
			return runBuild(opts)
		},
		// main reports the error once; cobra adds neither usage nor its
		// own echo.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (default: discover docpp.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Output file (default: standard output)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Rerun when inputs or catalogs change (requires --output)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "How long to wait for more changes before a watch rerun")

	cmd.AddCommand(checkCmd(&opts))
	cmd.AddCommand(listCmd(&opts))
	cmd.AddCommand(initCmd(&opts))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

type options struct {
	configPath string
	logLevel   string
	outputPath string
	watch      bool
	debounce   time.Duration
	inputs     []string
}
