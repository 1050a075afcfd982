package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/codatagen/config"
	"github.com/c360studio/codatagen/generator"
)

func generateCmd(opts *globalOptions) *cobra.Command {
	var (
		revisions   []string
		parallelism int
		noFormat    bool
		noVerify    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate headers and test suites for the configured revisions",
		Long: `Generate writes one C++ header and one Boost.Test suite per revision.

A revision whose catalog is missing or invalid is reported and skipped;
the remaining revisions are still generated. The command fails if any
revision failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}

			descs, err := app.Revisions(revisions)
			if err != nil {
				return err
			}
			if err := app.Override(&config.Config{
				Generator: config.GeneratorConfig{Parallelism: parallelism},
			}); err != nil {
				return err
			}

			driver, err := app.Driver(descs, DriverOptions{
				Format: app.cfg.Format.Enabled && !noFormat,
				Verify: app.cfg.Generator.Verify && !noVerify,
			})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			report := driver.Run(ctx)
			printReport(cmd.OutOrStdout(), app, report)

			if err := app.saveManifest(report); err != nil {
				return err
			}
			if path := app.MetricsPath(); path != "" {
				if err := app.metrics.WriteTextfile(path); err != nil {
					return err
				}
			}

			if failed := len(report.Results) - len(report.Generated()); failed > 0 {
				return fmt.Errorf("%d of %d revisions failed", failed, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&revisions, "revision", "r", nil, "Revision labels to generate (default: all)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "Revisions generated concurrently (default: generator.parallelism)")
	cmd.Flags().BoolVar(&noFormat, "no-format", false, "Skip clang-format")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip tree-sitter verification")

	return cmd
}

// saveManifest records the generated revisions, keeping entries for
// revisions this run did not touch.
func (a *App) saveManifest(report *generator.Report) error {
	path := a.ManifestPath()
	if path == "" || len(report.Generated()) == 0 {
		return nil
	}

	m := generator.NewManifest(report, a.root)
	prev, err := generator.LoadManifest(path)
	switch {
	case err == nil:
		m.MergePrevious(prev)
	case !errors.Is(err, fs.ErrNotExist):
		a.logger.Warn("Ignoring unreadable manifest", "path", path, "error", err)
	}

	if err := m.Save(path); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	a.logger.Debug("Saved manifest", "path", path, "run_id", m.RunID)
	return nil
}

func printReport(w io.Writer, app *App, report *generator.Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, res := range report.Results {
		switch res.Outcome {
		case generator.OutcomeGenerated:
			fmt.Fprintf(tw, "%s\t%s\t%d constants\t%s\n", res.Label, res.Outcome, res.Constants, app.rel(res.HeaderPath))
		default:
			fmt.Fprintf(tw, "%s\t%s\t\t%v\n", res.Label, res.Outcome, res.Err)
		}
	}
	tw.Flush()

	for _, warn := range report.Warnings() {
		fmt.Fprintf(w, "warning: %v\n", warn)
	}
}
