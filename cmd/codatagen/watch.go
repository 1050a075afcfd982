package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/codatagen/catalog"
	"github.com/c360studio/codatagen/generator"
	"github.com/c360studio/codatagen/watch"
)

func watchCmd(opts *globalOptions) *cobra.Command {
	var noFormat bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate revisions when their catalog files change",
		Long: `Watch monitors every file-backed catalog and regenerates the revisions
that read it whenever its content changes. Embedded catalogs never change
and are not watched. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}

			files := make(map[string]string)
			for _, r := range app.cfg.Revisions {
				if catalog.IsBuiltin(r.Catalog) {
					continue
				}
				files[app.loader.Path(r.Catalog)] = r.Label
			}
			if len(files) == 0 {
				return fmt.Errorf("no file-backed catalogs to watch")
			}

			w, err := watch.NewWatcher(watch.WatcherConfig{
				Files:         files,
				DebounceDelay: app.cfg.Watch.Debounce,
				Logger:        app.logger,
			})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			defer w.Stop()
			if err := w.Start(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "watching %d catalog files\n", len(files))

			driverOpts := DriverOptions{
				Format: app.cfg.Format.Enabled && !noFormat,
				Verify: app.cfg.Generator.Verify,
			}
			return app.watchLoop(ctx, w, driverOpts, func(report *generator.Report) {
				printReport(cmd.OutOrStdout(), app, report)
			})
		},
	}

	cmd.Flags().BoolVar(&noFormat, "no-format", false, "Skip clang-format")

	return cmd
}

// watchLoop regenerates the revisions named by each change until ctx ends.
func (a *App) watchLoop(ctx context.Context, w *watch.Watcher, o DriverOptions, onReport func(*generator.Report)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes():
			if !ok {
				return nil
			}
			for _, label := range change.Deleted {
				a.logger.Warn("Catalog removed, keeping existing artifacts", slog.String("revision", label))
			}
			if len(change.Labels) == 0 {
				continue
			}

			descs, err := a.Revisions(change.Labels)
			if err != nil {
				return err
			}
			driver, err := a.Driver(descs, o)
			if err != nil {
				return err
			}
			report := driver.Run(ctx)
			onReport(report)
			if err := a.saveManifest(report); err != nil {
				a.logger.Warn("Failed to save manifest", "error", err)
			}
		}
	}
}
