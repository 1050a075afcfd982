package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/codatagen/tools/format"
)

func formatCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [pattern...]",
		Short: "Run clang-format over generated files",
		Long: `Format rewrites every file matching the given glob patterns, or
format.patterns from the configuration when none are given. Patterns are
relative to the project root and support "**".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}

			patterns := args
			if len(patterns) == 0 {
				patterns = app.cfg.Format.Patterns
			}
			files, err := format.ResolveFiles(app.root, patterns)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no files matched")
				return nil
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			warnings := app.formatter.FormatFiles(ctx, files)
			for _, w := range warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %v\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "formatted %d of %d files\n", len(files)-len(warnings), len(files))

			if len(warnings) > 0 {
				return fmt.Errorf("%d files could not be formatted", len(warnings))
			}
			return nil
		},
	}

	return cmd
}
