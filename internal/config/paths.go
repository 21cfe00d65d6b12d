package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changelog/config.yml
// - macOS: ~/Library/Application Support/changelog/config.yml
// - Windows: %APPDATA%\changelog\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changelog", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".changelog", "config.yml")
}

// LegacyUserConfigPath returns the path to the legacy user-level JSON
// config file (~/.changelog/config.json).
func LegacyUserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".changelog", "config.json"), nil
}

// LegacyProjectConfigPath returns the path to the legacy project-level
// JSON config file.
func LegacyProjectConfigPath() string {
	return filepath.Join(".changelog", "config.json")
}
