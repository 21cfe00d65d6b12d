package config

import "github.com/ariel-frischer/changelog/internal/github"

// Defaults returns the default configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"github_base_url": github.PublicBaseURL,
		"github_api_url":  github.PublicAPIURL,
		"github_token":    "",
		"branch":          "main",
		"remote":          "origin",
		"markdown":        false,
		"single_line":     false,
		// ignore_release_merge: Skip merge commits of release branches
		// so release PRs don't show up in their own changelog.
		"ignore_release_merge": false,
		// timeout: Per-request API timeout in seconds.
		"timeout": 30,
		// max_parallel: Concurrent PR detail fetches.
		"max_parallel": 4,
	}
}

// Template returns a commented config template written by `config init`.
func Template() string {
	return `# changelog configuration
# Priority: environment (CHANGELOG_*) > project (.changelog/config.yml) > this file

# GitHub endpoints. Override both for GitHub Enterprise.
github_base_url: https://github.com
github_api_url: https://api.github.com

# OAuth token for API requests. Prefer the GITHUB_API_TOKEN environment
# variable over storing a token here.
github_token: ""

# Branch compared against when no current tag is given.
branch: main

# Git remote used to infer owner/repo when not passed on the command line.
remote: origin

# Output settings
markdown: false               # Render PR numbers as markdown links
single_line: false            # Join lines with literal \n sequences
ignore_release_merge: false   # Skip release-branch merge commits

# API settings
timeout: 30                   # Per-request timeout in seconds
max_parallel: 4               # Concurrent PR detail fetches
`
}
