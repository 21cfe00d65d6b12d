package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/changelog/internal/config"
	"github.com/ariel-frischer/changelog/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitUserFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage changelog configuration",
	Long: `Inspect and initialize changelog configuration files.

Configuration priority: environment (CHANGELOG_*) > project
(.changelog/config.yml) > user (~/.config/changelog/config.yml) > defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, errors.Configuration)
		}

		// Never print the token itself.
		tokenState := "(not set)"
		if cfg.GitHubToken != "" {
			tokenState = "(set)"
		}

		out, err := yaml.Marshal(map[string]interface{}{
			"github_base_url":      cfg.GitHubBaseURL,
			"github_api_url":       cfg.GitHubAPIURL,
			"github_token":         tokenState,
			"branch":               cfg.Branch,
			"remote":               cfg.Remote,
			"markdown":             cfg.Markdown,
			"single_line":          cfg.SingleLine,
			"ignore_release_merge": cfg.IgnoreReleaseMerge,
			"timeout":              cfg.Timeout,
			"max_parallel":         cfg.MaxParallel,
		})
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		userPath, err := config.UserConfigPath()
		if err != nil {
			return fmt.Errorf("resolving user config path: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "user:    %s\n", userPath)
		fmt.Fprintf(cmd.OutOrStdout(), "project: %s\n", config.ProjectConfigPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration template",
	Long: `Write a commented configuration template to the project config path
(.changelog/config.yml), or to the user config path with --user.
Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.ProjectConfigPath()
		if configInitUserFlag {
			userPath, err := config.UserConfigPath()
			if err != nil {
				return fmt.Errorf("resolving user config path: %w", err)
			}
			path = userPath
		}

		if _, err := os.Stat(path); err == nil {
			return errors.NewConfigError(
				fmt.Sprintf("config file already exists at %s", path),
				"edit the existing file, or remove it first")
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("writing config template: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitUserFlag, "user", false, "Write the user-level config instead of the project config")
}
