package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/codatagen/catalog"
	"github.com/c360studio/codatagen/tools/format"
)

func catalogCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and convert constant catalogs",
	}

	cmd.AddCommand(
		catalogListCmd(opts),
		catalogShowCmd(opts),
		catalogImportCmd(),
	)
	return cmd
}

func catalogListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured revisions and whether their catalogs load",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "REVISION\tCATALOG\tSTATUS")
			for _, r := range app.cfg.Revisions {
				set, err := app.loader.LoadRevisionSet(cmd.Context(), r.Label, r.Catalog, app.Translator())
				var status string
				if err != nil {
					status = err.Error()
				} else {
					status = fmt.Sprintf("%d constants", set.Len())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Label, r.Catalog, status)
			}
			return tw.Flush()
		},
	}
}

func catalogShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <revision>",
		Short: "Show the constants of a revision with their identifiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}

			r, ok := app.cfg.Revision(args[0])
			if !ok {
				return fmt.Errorf("revision %q is not configured", args[0])
			}
			set, err := app.loader.LoadRevisionSet(cmd.Context(), r.Label, r.Catalog, app.Translator())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "IDENTIFIER\tVALUE\tUNCERTAINTY\tPRECISION\tUNIT")
			for _, rec := range set.Records() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					rec.Identifier(), rec.ValueLiteral(), rec.UncertaintyLiteral(), rec.PrecisionLiteral(), rec.Unit())
			}
			return tw.Flush()
		},
	}
}

func catalogImportCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "import <source> <dest.yaml>",
		Short: "Convert a catalog file (e.g. a NIST allascii table) to YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dest := args[0], args[1]

			parser, err := catalog.DefaultRegistry.ForPath(src)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(src)
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			cat, err := parser.Parse(src, content)
			if err != nil {
				return err
			}
			if label != "" {
				cat.Revision = label
			}
			if cat.Source == "" {
				cat.Source = "imported from " + filepath.Base(src)
			}

			var buf bytes.Buffer
			if err := catalog.NewYAMLParser().Encode(cat, &buf); err != nil {
				return err
			}
			if err := format.WriteFileAtomic(dest, buf.Bytes()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d constants (revision %s) to %s\n", len(cat.Entries), cat.Revision, dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "revision", "", "Revision label to record (default: from the source)")

	return cmd
}
