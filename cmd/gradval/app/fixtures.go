package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regdir/gradval/internal/fixtures"
)

func newFixturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Work with bundled fixture packs (sample grammars and transcripts)",
	}
	cmd.AddCommand(newFixturesExtractCommand())
	return cmd
}

func newFixturesExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <archive> <destination>",
		Short: "Extract a fixture pack archive into a destination directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fixtures.Extract(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %s into %s\n", args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "  grammar:     %s\n", fixtures.GrammarPath(args[1]))
			fmt.Fprintf(cmd.OutOrStdout(), "  transcripts: %s\n", fixtures.TranscriptsDir(args[1]))
			return nil
		},
	}
}
