package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/c360studio/codatagen/catalog"
	"github.com/c360studio/codatagen/codata"
	"github.com/c360studio/codatagen/config"
	"github.com/c360studio/codatagen/generator"
	"github.com/c360studio/codatagen/metrics"
	"github.com/c360studio/codatagen/tools/format"
	"github.com/c360studio/codatagen/verify"
)

// App wires the configuration to the catalog loader, formatter, verifier
// and generation driver.
type App struct {
	cfg    *config.Config
	root   string
	logger *slog.Logger

	loader    *catalog.Loader
	formatter *format.Formatter
	metrics   *metrics.Recorder
}

// loadApp resolves configuration for the global options and builds an App.
func loadApp(opts *globalOptions) (*App, error) {
	loaded, err := config.NewLoader(opts.logger).WithWorkDir(opts.dir).Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewApp(loaded.Config, loaded.Root, opts.logger), nil
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, root string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:    cfg,
		root:   root,
		logger: logger,
		loader: catalog.NewLoader(root, nil, logger),
		formatter: format.New(
			format.WithCommand(cfg.Format.Command),
			format.WithArgs(cfg.Format.Args...),
			format.WithTimeout(cfg.Format.Timeout),
			format.WithLogger(logger),
		),
		metrics: metrics.NewRecorder(),
	}
}

// Translator returns the configured name translator.
func (a *App) Translator() codata.Translator {
	return codata.Translator{Hyphen: a.cfg.HyphenMode()}
}

// Revisions returns the descriptors for labels, or every configured
// revision when labels is empty.
func (a *App) Revisions(labels []string) ([]generator.RevisionDescriptor, error) {
	if len(labels) == 0 {
		out := make([]generator.RevisionDescriptor, 0, len(a.cfg.Revisions))
		for _, r := range a.cfg.Revisions {
			out = append(out, generator.RevisionDescriptor{Label: r.Label, Catalog: r.Catalog})
		}
		return out, nil
	}

	out := make([]generator.RevisionDescriptor, 0, len(labels))
	for _, l := range labels {
		r, ok := a.cfg.Revision(l)
		if !ok {
			return nil, fmt.Errorf("revision %q is not configured", l)
		}
		out = append(out, generator.RevisionDescriptor{Label: r.Label, Catalog: r.Catalog})
	}
	return out, nil
}

// Override merges command-line settings over the loaded configuration.
// Zero fields in o leave the configuration unchanged.
func (a *App) Override(o *config.Config) error {
	a.cfg.Merge(o)
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// DriverOptions selects the optional pipeline stages.
type DriverOptions struct {
	Format bool
	Verify bool
}

// Driver builds a generation driver over revisions.
func (a *App) Driver(revisions []generator.RevisionDescriptor, o DriverOptions) (*generator.Driver, error) {
	opts := generator.Options{
		Root:        a.root,
		IncludeDir:  a.cfg.Output.IncludeDir,
		TestsDir:    a.cfg.Output.TestsDir,
		Org:         a.cfg.Project.Org,
		Category:    a.cfg.Project.Category,
		NamePrefix:  a.cfg.Project.NamePrefix,
		Translator:  a.Translator(),
		TestTypes:   a.cfg.Tests.Types,
		Parallelism: a.cfg.Generator.Parallelism,
		Loader:      a.loader,
		Metrics:     a.metrics,
		Logger:      a.logger,
	}
	if o.Format {
		// A missing binary surfaces as a format warning per artifact.
		if !a.formatter.Available() {
			a.logger.Warn("Formatter not found, artifacts left unformatted", "command", a.formatter.Command())
		}
		opts.Formatter = a.formatter
	}
	if o.Verify {
		opts.Checker = verify.NewChecker()
	}
	return generator.New(revisions, opts)
}

// ManifestPath returns the absolute manifest path, or "" when disabled.
func (a *App) ManifestPath() string {
	return a.resolve(a.cfg.Generator.Manifest)
}

// MetricsPath returns the absolute metrics textfile path, or "" when disabled.
func (a *App) MetricsPath() string {
	return a.resolve(a.cfg.Metrics.Textfile)
}

func (a *App) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.root, p)
}

// rel returns p relative to the project root for display.
func (a *App) rel(p string) string {
	if r, err := filepath.Rel(a.root, p); err == nil {
		return r
	}
	return p
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
