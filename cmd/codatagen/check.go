package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/c360studio/codatagen/generator"
)

func checkCmd(opts *globalOptions) *cobra.Command {
	var revisions []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that generated artifacts are up to date",
		Long: `Check renders every revision twice in memory and compares the results
with each other and with the digests recorded by the last generate run.
It fails when rendering is not deterministic, when a catalog or the
generator changed since the artifacts were written, or when an artifact
is missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}

			descs, err := app.Revisions(revisions)
			if err != nil {
				return err
			}
			driver, err := app.Driver(descs, DriverOptions{})
			if err != nil {
				return err
			}

			var manifest *generator.Manifest
			if path := app.ManifestPath(); path != "" {
				manifest, err = generator.LoadManifest(path)
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("no manifest at %s; run generate first", app.rel(path))
				}
				if err != nil {
					return err
				}
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			results := driver.Check(ctx, manifest)
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(out, "%s\tstale\t%v\n", r.Label, r.Err)
				} else {
					fmt.Fprintf(out, "%s\tok\n", r.Label)
				}
			}
			return generator.CheckErr(results)
		},
	}

	cmd.Flags().StringSliceVarP(&revisions, "revision", "r", nil, "Revision labels to check (default: all)")

	return cmd
}
