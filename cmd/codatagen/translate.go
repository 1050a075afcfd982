package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/codatagen/codata"
)

func translateCmd() *cobra.Command {
	var hyphen string

	cmd := &cobra.Command{
		Use:   "translate <name>...",
		Short: "Print the C++ identifier for constant names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := codata.ParseHyphenMode(hyphen)
			if err != nil {
				return err
			}
			tr := codata.Translator{Hyphen: mode}
			for _, name := range args {
				id := tr.Translate(name)
				if !codata.ValidIdentifier(id) {
					return fmt.Errorf("%q translates to %q, which is not a valid C++ identifier", name, id)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hyphen, "hyphen", string(codata.HyphenStrip), "Hyphen handling (strip, underscore)")

	return cmd
}
