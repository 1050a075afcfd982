package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/codatagen/config"
)

func initCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default codatagen.yaml into the project directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.NewLoader(opts.logger).EnsureProjectConfig(opts.dir)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
			}
			return nil
		},
	}
}
