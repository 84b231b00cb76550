// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Project intent
	Name        string `json:"name,omitempty"`        // Project name
	Description string `json:"description,omitempty"` // Project description
	Location    string `json:"location,omitempty"`    // Parent directory for the project
	Packages    string `json:"packages,omitempty"`    // Comma/space separated package list

	// Credentials and model selection
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	GitHubToken string `json:"github_token,omitempty"` // GitHub token for repository research
	Model       string `json:"model,omitempty"`        // Gemini model name

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are handled by flag validation after merging, not here.
func (c *Config) Validate() error {
	if c.Location != "" {
		info, err := os.Stat(c.Location)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: 'location' is not a directory: %s", c.Location)
		}
	}
	return nil
}

// MergeWithEnv returns a new Config with empty credential fields filled from
// the environment: GEMINI_API_KEY, GITHUB_TOKEN, GEMINI_MODEL.
func (c *Config) MergeWithEnv() Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if result.GitHubToken == "" {
		result.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if result.Model == "" {
		result.Model = os.Getenv("GEMINI_MODEL")
	}

	return result
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Name == "" {
		result.Name = defaults.Name
	}
	if result.Description == "" {
		result.Description = defaults.Description
	}
	if result.Location == "" {
		result.Location = defaults.Location
	}
	if result.Packages == "" {
		result.Packages = defaults.Packages
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GitHubToken == "" {
		result.GitHubToken = defaults.GitHubToken
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
