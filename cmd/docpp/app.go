package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/docpp/catalog"
	"github.com/c360studio/docpp/config"
	"github.com/c360studio/docpp/input"
	"github.com/c360studio/docpp/process"
	"github.com/c360studio/docpp/registry"
	"github.com/c360studio/docpp/watch"
)

// App is the main application that wires configuration, catalogs, and the
// directive registry together for one invocation.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
}

// newApp loads configuration, configures logging, and builds the directive
// registry from the configured catalogs.
func newApp(opts options) (*App, error) {
	// A bootstrap logger carries the flag level, if any, until the config
	// level is known.
	logger := newLogger(opts.logLevel)

	cfg, err := config.NewLoader(logger).Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// The flag wins over the config file.
	level := opts.logLevel
	if level == "" {
		level = cfg.Log.Level
	}
	logger = newLogger(level)
	slog.SetDefault(logger)

	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("Registry configured", "classes", reg.Classes())

	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
	}, nil
}

// newLogger builds a text logger on stderr. Output must stay clean for the
// processed document, so nothing diagnostic ever goes to stdout.
func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildRegistry loads every configured catalog and registers it under its
// directive class.
func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg := registry.New()
	for class, catalogCfg := range cfg.Catalogs {
		src, err := loadCatalog(catalogCfg)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", class, err)
		}
		reg.Register(class, src)
	}
	return reg, nil
}

func loadCatalog(catalogCfg config.CatalogConfig) (registry.Source, error) {
	switch catalogCfg.Type {
	case config.CatalogValues:
		return catalog.LoadValues(catalogCfg.Path)
	case config.CatalogFields:
		return catalog.LoadFields(catalogCfg.Path)
	default:
		return nil, fmt.Errorf("unknown catalog type %q", catalogCfg.Type)
	}
}

// runBuild is the root command: process the inputs once, or keep reprocessing
// under --watch.
func runBuild(opts options) error {
	app, err := newApp(opts)
	if err != nil {
		return err
	}

	paths, err := input.Expand(opts.inputs)
	if err != nil {
		return err
	}

	if opts.watch {
		return app.watchLoop(opts, paths)
	}
	return app.buildOnce(paths, opts.outputPath)
}

// buildOnce runs one complete pass over the inputs.
func (a *App) buildOnce(paths []string, outputPath string) error {
	runID := uuid.New().String()
	start := time.Now()

	var dst io.Writer = os.Stdout
	var outFile *os.File
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output %s: %w", outputPath, err)
		}
		dst = f
		outFile = f
	}

	src := input.Open(paths)
	defer src.Close()

	proc := process.New(a.registry, a.logger)
	err := proc.Run(src, dst)
	if outFile != nil {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output %s: %w", outputPath, cerr)
		}
	}
	if err != nil {
		return err
	}

	stats := proc.Stats()
	a.logger.Info("Processing complete",
		"run_id", runID,
		"lines", stats.Lines,
		"directives", stats.Directives,
		"rendered_lines", stats.Rendered,
		"duration", time.Since(start).Round(time.Microsecond))
	return nil
}

// watchLoop reruns the build whenever an input or catalog file changes. A
// failed rerun is logged and watching continues; the loop ends on SIGINT or
// SIGTERM.
func (a *App) watchLoop(opts options, paths []string) error {
	if opts.outputPath == "" {
		return fmt.Errorf("--watch requires --output, otherwise reruns would interleave on stdout")
	}
	for _, p := range paths {
		if p == "-" {
			return fmt.Errorf("--watch cannot follow standard input")
		}
	}

	watched := make([]string, 0, len(paths)+len(a.cfg.Catalogs))
	watched = append(watched, paths...)
	for _, catalogCfg := range a.cfg.Catalogs {
		watched = append(watched, catalogCfg.Path)
	}

	watcher, err := watch.New(watched, opts.debounce, a.logger)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	watcher.Start(ctx)

	// Build once up front so the output exists before the first change.
	if err := a.rebuild(paths, opts.outputPath); err != nil {
		a.logger.Error("Build failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped")
			return nil
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			a.logger.Info("Inputs changed", "paths", event.Paths)
			if err := a.rebuild(paths, opts.outputPath); err != nil {
				a.logger.Error("Build failed", "error", err)
			}
		}
	}
}

// rebuild reloads the catalogs and runs a fresh pass, so catalog edits are
// picked up along with input edits.
func (a *App) rebuild(paths []string, outputPath string) error {
	reg, err := buildRegistry(a.cfg)
	if err != nil {
		return err
	}
	a.registry = reg
	return a.buildOnce(paths, outputPath)
}
