package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Validate checks that a Configuration holds usable values.
func Validate(cfg *Configuration) error {
	if err := validateURL("github_base_url", cfg.GitHubBaseURL); err != nil {
		return err
	}
	if err := validateURL("github_api_url", cfg.GitHubAPIURL); err != nil {
		return err
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %d", cfg.Timeout)
	}
	if cfg.MaxParallel < 0 {
		return fmt.Errorf("max_parallel must be >= 0, got %d", cfg.MaxParallel)
	}
	if cfg.Remote == "" {
		return fmt.Errorf("remote must not be empty")
	}

	return nil
}

// validateURL checks that a configured URL is absolute.
func validateURL(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
	}
	return nil
}

// ValidateYAMLSyntax decodes a YAML file without mapping it to a struct,
// surfacing syntax errors with line positions before koanf flattens them.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	return nil
}
