// Package app wires gradval's cobra command tree: validate, fixtures,
// fetch, config, version, and completion. Structured the way the
// teacher's cmd/drun/app package separates each command's domain into
// its own file under a shared app package imported by a thin main.go.
package app

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the gradval root command with all subcommands attached.
func NewRootCommand(version, commit, date string) *cobra.Command {
	root := &cobra.Command{
		Use:   "gradval",
		Short: "A grammar-driven structural validator for line-oriented reply transcripts",
		Long: `gradval validates line-oriented reply transcripts (such as RDAP/WHOIS-style
replies) against a declarative grammar: field types, optional and repeatable
sections, and choice alternatives, all checked without short-circuiting on
the first problem.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newValidateCommand())
	root.AddCommand(newFixturesCommand())
	root.AddCommand(newFetchCommand())
	root.AddCommand(newConfigCommand())
	root.AddCommand(newVersionCommand(version, commit, date))
	root.AddCommand(newCompletionCommand())

	return root
}
