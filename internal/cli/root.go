// Package cli wires the searchq command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/searchq/searchq/internal/cli/commands"
)

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	root := &cobra.Command{
		Use:           "searchq",
		Short:         "Relevance-ranked search and sort for SQL-backed models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var cfgPath string
	var verbose bool
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default: searchq.yaml in the working directory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logger := func() zerolog.Logger {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}

	root.AddCommand(
		commands.NewRenderCmd(&cfgPath),
		commands.NewRunCmd(&cfgPath, logger),
		commands.NewModelsCmd(&cfgPath),
		commands.NewVersionCmd(),
	)

	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
