// Package main provides the entry point for the ripplemine CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ripplemine/ripplemine/cmd/ripplemine/commands"
	"github.com/ripplemine/ripplemine/internal/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripplemine",
		Short: "Ripplemine - file co-change mining and ripple prediction",
		Long: `Ripplemine mines a Git repository's commit history for file co-changes
and predicts which files are likely to change next.

Commands:
  analyze   Mine co-changes and build the frequency/probability matrices
  predict   Mine co-changes and print the ripple prediction for a window`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (accepted; no subcommand reads it)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output (accepted; no subcommand reads it)")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewPredictCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "ripplemine %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
