// Package config provides layered configuration for the changelog CLI using
// koanf. Values are loaded with priority: environment variables > project
// config (.changelog/config.yml) > user config (~/.config/changelog/config.yml)
// > defaults. Legacy JSON configs in the same directories are still read,
// with a deprecation warning.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix for environment variable overrides.
// Example: CHANGELOG_BRANCH overrides the branch key.
const envPrefix = "CHANGELOG_"

// Configuration holds all settings for changelog generation.
type Configuration struct {
	// GitHubBaseURL is the web URL used to build pull request links.
	// Override for GitHub Enterprise, e.g. https://github.my-company.com.
	GitHubBaseURL string `koanf:"github_base_url"`

	// GitHubAPIURL is the REST API URL.
	// Override for GitHub Enterprise, e.g. https://github.my-company.com/api/v3.
	GitHubAPIURL string `koanf:"github_api_url"`

	// GitHubToken authenticates API requests. Also read from the
	// GITHUB_API_TOKEN environment variable when unset.
	GitHubToken string `koanf:"github_token"`

	// Branch is the branch compared against when no current tag is given.
	Branch string `koanf:"branch"`

	// Remote is the git remote used to infer owner/repo from the
	// enclosing repository.
	Remote string `koanf:"remote"`

	// Markdown renders PR numbers as markdown links by default.
	Markdown bool `koanf:"markdown"`

	// SingleLine joins output lines with literal \n sequences.
	SingleLine bool `koanf:"single_line"`

	// IgnoreReleaseMerge skips merge commits of release branches.
	IgnoreReleaseMerge bool `koanf:"ignore_release_merge"`

	// Timeout is the per-request API timeout in seconds.
	Timeout int `koanf:"timeout"`

	// MaxParallel bounds concurrent PR detail fetches.
	MaxParallel int `koanf:"max_parallel"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default:
	// .changelog/config.yml). Used by tests.
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr).
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings.
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
func Load() (*Configuration, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	for key, value := range Defaults() {
		_ = k.Set(key, value)
	}

	if err := loadUserConfig(k, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// The original tool reads GITHUB_API_TOKEN directly; keep honoring it.
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_API_TOKEN")
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadUserConfig loads user-level config (YAML preferred, legacy JSON
// supported with a warning).
func loadUserConfig(k *koanf.Koanf, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath, err := UserConfigPath()
	if err != nil {
		return nil
	}
	legacyPath, _ := LegacyUserConfigPath()

	return loadLayer(k, yamlPath, legacyPath, "user", warningWriter, skipWarnings)
}

// loadProjectConfig loads project-level config, honoring a custom path
// override for tests.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}

	return loadLayer(k, yamlPath, LegacyProjectConfigPath(), "project", warningWriter, skipWarnings)
}

// loadLayer loads one config layer: the YAML file when present, otherwise
// the legacy JSON file with a deprecation warning.
func loadLayer(k *koanf.Koanf, yamlPath, legacyPath, layer string, warningWriter io.Writer, skipWarnings bool) error {
	if fileExists(yamlPath) {
		if err := ValidateYAMLSyntax(yamlPath); err != nil {
			return fmt.Errorf("validating %s config: %w", layer, err)
		}
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading %s config %s: %w", layer, yamlPath, err)
		}
		return nil
	}

	if fileExists(legacyPath) {
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy %s config %s: %w", layer, legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Move it to %s in YAML format.\n\n", yamlPath)
		}
	}

	return nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_GITHUB_BASE_URL -> github_base_url.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
