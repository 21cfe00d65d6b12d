package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv points every config source at empty temp directories so
// tests never read the developer's real configuration.
func isolateEnv(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, ".config"))
	t.Setenv("GITHUB_API_TOKEN", "")
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://github.com", cfg.GitHubBaseURL)
	assert.Equal(t, "https://api.github.com", cfg.GitHubAPIURL)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, "origin", cfg.Remote)
	assert.Equal(t, 30, cfg.Timeout)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.False(t, cfg.Markdown)
	assert.False(t, cfg.IgnoreReleaseMerge)
	assert.Empty(t, cfg.GitHubToken)
}

func TestLoadProjectConfigOverridesDefaults(t *testing.T) {
	isolateEnv(t)

	path := writeConfig(t, t.TempDir(), "config.yml", `
github_base_url: https://github.company.com
github_api_url: https://github.company.com/api/v3
branch: develop
markdown: true
`)

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "https://github.company.com", cfg.GitHubBaseURL)
	assert.Equal(t, "https://github.company.com/api/v3", cfg.GitHubAPIURL)
	assert.Equal(t, "develop", cfg.Branch)
	assert.True(t, cfg.Markdown)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, cfg.Timeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	path := writeConfig(t, t.TempDir(), "config.yml", "branch: develop\n")

	t.Setenv("CHANGELOG_BRANCH", "hotfix")
	t.Setenv("CHANGELOG_MAX_PARALLEL", "8")

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "hotfix", cfg.Branch)
	assert.Equal(t, 8, cfg.MaxParallel)
}

func TestLoadGitHubAPIToken(t *testing.T) {
	tests := map[string]struct {
		configToken string
		envToken    string
		want        string
	}{
		"env token used when config has none": {
			envToken: "env-secret",
			want:     "env-secret",
		},
		"config token wins over env": {
			configToken: "file-secret",
			envToken:    "env-secret",
			want:        "file-secret",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)

			content := ""
			if tt.configToken != "" {
				content = "github_token: " + tt.configToken + "\n"
			}
			path := writeConfig(t, t.TempDir(), "config.yml", content)

			t.Setenv("GITHUB_API_TOKEN", tt.envToken)

			cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.GitHubToken)
		})
	}
}

func TestLoadLegacyJSONConfig(t *testing.T) {
	isolateEnv(t)

	// Legacy JSON in the project directory is read with a warning when
	// no YAML config exists.
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, ".changelog"), 0o755))
	writeConfig(t, filepath.Join(tmp, ".changelog"), "config.json", `{"branch": "legacy-branch"}`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{WarningWriter: &warnings})
	require.NoError(t, err)

	assert.Equal(t, "legacy-branch", cfg.Branch)
	assert.Contains(t, warnings.String(), "deprecated JSON config")
}

func TestLoadInvalidYAML(t *testing.T) {
	isolateEnv(t)

	path := writeConfig(t, t.TempDir(), "config.yml", "branch: [unclosed\n")

	_, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating project config")
}

func TestValidate(t *testing.T) {
	valid := func() *Configuration {
		return &Configuration{
			GitHubBaseURL: "https://github.com",
			GitHubAPIURL:  "https://api.github.com",
			Branch:        "main",
			Remote:        "origin",
			Timeout:       30,
			MaxParallel:   4,
		}
	}

	tests := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"valid config": {
			mutate: func(*Configuration) {},
		},
		"empty base url": {
			mutate:  func(c *Configuration) { c.GitHubBaseURL = "" },
			wantErr: "github_base_url must not be empty",
		},
		"relative api url": {
			mutate:  func(c *Configuration) { c.GitHubAPIURL = "api.github.com" },
			wantErr: "absolute URL",
		},
		"negative timeout": {
			mutate:  func(c *Configuration) { c.Timeout = -1 },
			wantErr: "timeout",
		},
		"negative max parallel": {
			mutate:  func(c *Configuration) { c.MaxParallel = -2 },
			wantErr: "max_parallel",
		},
		"empty remote": {
			mutate:  func(c *Configuration) { c.Remote = "" },
			wantErr: "remote",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
