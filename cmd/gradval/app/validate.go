package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/regdir/gradval/internal/diagfmt"
	"github.com/regdir/gradval/internal/grammar"
	"github.com/regdir/gradval/internal/grammarcache"
	"github.com/regdir/gradval/internal/grammaryaml"
	"github.com/regdir/gradval/internal/replylex"
	"github.com/regdir/gradval/internal/types"
	"github.com/regdir/gradval/internal/validator"
)

func newValidateCommand() *cobra.Command {
	var grammarFile string
	var ruleName string
	var maxDiagnostics int
	var noCache bool

	cmd := &cobra.Command{
		Use:   "validate <transcript-file>",
		Short: "Validate a reply transcript against a grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolvedGrammar, err := FindGrammarFile(grammarFile)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(resolvedGrammar)
			if err != nil {
				return fmt.Errorf("reading grammar file: %w", err)
			}

			registry := types.NewDefaultRegistry()

			var g grammar.Grammar
			if noCache {
				g, err = grammaryaml.Parse(source)
				if err == nil {
					err = g.Check(registry.HasType)
				}
			} else {
				cache, cacheErr := grammarcache.NewManager(24*time.Hour, false)
				if cacheErr != nil {
					return fmt.Errorf("opening grammar cache: %w", cacheErr)
				}
				defer cache.Close()
				g, err = cache.Load(source, registry.HasType)
			}
			if err != nil {
				return fmt.Errorf("loading grammar: %w", err)
			}

			transcript, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading transcript: %w", err)
			}

			lex := replylex.New(string(transcript))
			sink := validator.ValidateDiagnostics(ruleName, lex, g, registry)
			diagnostics := sink.Diagnostics()

			if len(diagnostics) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
				return nil
			}

			report := diagfmt.Report{
				Filename: args[0],
				Source:   string(transcript),
				MaxShown: maxDiagnostics,
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Format(diagnostics))
			return fmt.Errorf("%d validation diagnostic(s)", len(diagnostics))
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "path to the grammar file (default: search workspace defaults)")
	cmd.Flags().StringVar(&ruleName, "rule", "Top", "grammar rule to validate the transcript against")
	cmd.Flags().IntVar(&maxDiagnostics, "max-diagnostics", 0, "maximum diagnostics to print (0 = unlimited)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the on-disk grammar cache")

	return cmd
}
