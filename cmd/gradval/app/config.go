package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/regdir/gradval/internal/grammaryaml"
)

// WorkspaceConfig is gradval's project-level configuration, the
// equivalent of the teacher's .drun_workspace.yml: a default grammar
// file plus a cache toggle, loaded from .gradval/workspace.yml.
type WorkspaceConfig struct {
	DefaultGrammarFile string `yaml:"defaultGrammarFile"`
	CacheDisabled      bool   `yaml:"cacheDisabled"`
	MaxDiagnostics     int    `yaml:"maxDiagnostics"`
}

const workspaceConfigPath = ".gradval/workspace.yml"

// FindGrammarFile resolves which grammar file to use: an explicit
// filename takes precedence, then the workspace default, then
// grammaryaml.DefaultFilenames in the current directory.
func FindGrammarFile(filename string) (string, error) {
	if filename != "" {
		if _, err := os.Stat(filename); err != nil {
			return "", fmt.Errorf("specified grammar file %q not found", filename)
		}
		return filename, nil
	}

	if cfg, err := loadWorkspaceConfig(); err == nil && cfg.DefaultGrammarFile != "" {
		if _, err := os.Stat(cfg.DefaultGrammarFile); err == nil {
			return cfg.DefaultGrammarFile, nil
		}
		return "", fmt.Errorf("workspace default grammar file %q not found", cfg.DefaultGrammarFile)
	}

	for _, candidate := range grammaryaml.DefaultFilenames {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no grammar file found - expected one of: %v\nUse --grammar to specify a location", grammaryaml.DefaultFilenames)
}

func loadWorkspaceConfig() (*WorkspaceConfig, error) {
	data, err := os.ReadFile(workspaceConfigPath)
	if err != nil {
		return nil, err
	}

	var cfg WorkspaceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", workspaceConfigPath, err)
	}
	return &cfg, nil
}

func saveWorkspaceConfig(cfg WorkspaceConfig) error {
	if err := os.MkdirAll(filepath.Dir(workspaceConfigPath), 0o755); err != nil {
		return fmt.Errorf("creating .gradval directory: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling workspace config: %w", err)
	}
	return os.WriteFile(workspaceConfigPath, data, 0o600)
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the gradval workspace configuration",
	}
	cmd.AddCommand(newConfigSetDefaultCommand())
	return cmd
}

func newConfigSetDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default-grammar <file>",
		Short: "Set the workspace default grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			if _, err := os.Stat(file); err != nil {
				return fmt.Errorf("grammar file %q not found", file)
			}

			cfg, err := loadWorkspaceConfig()
			if err != nil {
				cfg = &WorkspaceConfig{}
			}
			cfg.DefaultGrammarFile = file

			if err := saveWorkspaceConfig(*cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as the default grammar file.\n", file)
			return nil
		},
	}
}
