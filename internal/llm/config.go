// Package llm provides centralized LLM configuration and client abstractions.
package llm

import "os"

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
}

// DefaultConfig returns the default configuration. The model is taken from
// the GEMINI_MODEL environment variable when set.
func DefaultConfig() *Config {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	return &Config{
		Provider: ProviderGemini,
		Model:    model,
	}
}

// WithModel returns a new Config using the given model.
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	if model != "" {
		newConfig.Model = model
	}
	return &newConfig
}

// GetModel returns the configured model name.
func (c *Config) GetModel() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}
