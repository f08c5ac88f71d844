package app

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/regdir/gradval/internal/credentials"
	"github.com/regdir/gradval/internal/registryclient"
)

func newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch grammars from a remote registry",
	}
	cmd.AddCommand(newFetchLoginCommand())
	cmd.AddCommand(newFetchGrammarCommand())
	return cmd
}

func newFetchLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <registry-host> <token>",
		Short: "Save a registry token in the local credential store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := credentials.NewStore()
			if err != nil {
				return fmt.Errorf("opening credential store: %w", err)
			}
			if err := store.Set(args[0], credentials.KindToken, args[1]); err != nil {
				return fmt.Errorf("saving credential: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved a token for %s.\n", args[0])
			return nil
		},
	}
}

func newFetchGrammarCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "grammar <registry-url> <name>",
		Short: "Download a named grammar from a registry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registryURL, name := args[0], args[1]

			host, err := hostOf(registryURL)
			if err != nil {
				return err
			}

			client := registryclient.NewClient("dev").BaseURL(registryURL)

			store, err := credentials.NewStore()
			if err != nil {
				return fmt.Errorf("opening credential store: %w", err)
			}
			if token, err := store.Get(host, credentials.KindToken); err == nil {
				client = client.Auth(registryclient.Bearer(token))
			}

			resp, err := client.GET(fmt.Sprintf("/grammars/%s", name)).Send()
			if err != nil {
				return fmt.Errorf("fetching grammar: %w", err)
			}
			if regErr, ok := resp.AsError().(*registryclient.RegistryError); ok {
				if regErr.Unauthorized() {
					// The stored token (if any) is stale or was never
					// set; drop it so the next attempt doesn't send it
					// again, and tell the user how to fix it.
					_ = store.Delete(host, credentials.KindToken)
					return fmt.Errorf("registry rejected credentials for %s — run `gradval fetch login %s <token>`", host, host)
				}
				if regErr.NotFound() {
					return fmt.Errorf("registry has no grammar named %q", name)
				}
				return regErr
			}

			target := outputFile
			if target == "" {
				target = name + ".grammar.yml"
			}
			if err := os.WriteFile(target, resp.Body(), 0o644); err != nil {
				return fmt.Errorf("writing grammar file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <name>.grammar.yml)")
	return cmd
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid registry URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("registry URL %q has no host", rawURL)
	}
	return u.Host, nil
}
