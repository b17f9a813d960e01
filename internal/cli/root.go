// Package cli implements renewctl, the offline companion to the API: it scores
// record files with the same engine the server runs.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func Execute() error {
	return NewRoot().Execute()
}

func NewRoot() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "renewctl",
		Short:        "Score and rank renewal records from files",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine diagnostics to stderr")

	logger := func(cmd *cobra.Command) *slog.Logger {
		var w io.Writer = io.Discard
		if verbose {
			w = cmd.ErrOrStderr()
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	root.AddCommand(
		ScoreCmd(logger),
		TemplateCmd(),
		WeightsCmd(),
	)
	return root
}
