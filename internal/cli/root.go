// Package cli implements the tally command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd builds the command tree. Each call returns independent
// commands so flags do not leak between invocations.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tally",
		Short:   "Per-goroutine metrics accumulation and report merging",
		Version: version,
		Long: `Tally records observations into per-goroutine registries without locks
and merges their report pages into a single report.

The CLI drives synthetic workloads described in YAML or JSON files and
renders the merged report as text, colored console output, JSON, YAML or
the Prometheus text format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")

	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())

	return root
}

// newLogger returns a text slog logger; debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command against os.Args.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
