// Package main provides the codatagen binary entry point.
// codatagen turns CODATA recommended values of the fundamental physical
// constants into C++ headers and Boost.Test suites, one pair per revision.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "codatagen"
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

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	dir        string
	logLevel   string

	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "CODATA physical constants code generator",
		Long: `codatagen generates C++ headers and Boost.Test suites from CODATA
recommended values of the fundamental physical constants.

For every configured revision it:
- loads the catalog (embedded, YAML or a NIST allascii table)
- translates constant names into C++ identifiers
- writes include/<org>/<category>/<prefix>_<year>.hpp and tests/<prefix>_<year>.cpp
- formats both with clang-format and verifies them with tree-sitter`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.logLevel)
			slog.SetDefault(opts.logger)

			dir, err := filepath.Abs(opts.dir)
			if err != nil {
				return fmt.Errorf("resolve project dir: %w", err)
			}
			opts.dir = dir
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "Project directory to search for codatagen.yaml")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		generateCmd(opts),
		checkCmd(opts),
		formatCmd(opts),
		watchCmd(opts),
		catalogCmd(opts),
		translateCmd(),
		initCmd(opts),
	)

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// newLogger builds the text logger for the given level name.
func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
