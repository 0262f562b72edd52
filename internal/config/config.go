package config

import (
	"errors"
	"fmt"
)

// ErrMissing indicates a required configuration value is absent.
var ErrMissing = errors.New("missing configuration")

// Config represents the full application configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Event    EventConfig    `yaml:"event"`
	Exclude  string         `yaml:"exclude"`
	Action   string         `yaml:"action"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProviderConfig configures the language model provider.
type ProviderConfig struct {
	Name   string `yaml:"name"`
	Model  string `yaml:"model"`
	APIKey string `yaml:"apiKey"`
}

// EventConfig locates the pull request event payload.
type EventConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig holds provider HTTP client settings.
type HTTPConfig struct {
	Timeout        string `yaml:"timeout"`
	MaxRetries     int    `yaml:"maxRetries"`
	InitialBackoff string `yaml:"initialBackoff"`
	MaxBackoff     string `yaml:"maxBackoff"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Validate reports configuration that has no usable default. The API key
// is only required for providers that call a hosted model; the static
// provider runs without one.
func (c Config) Validate() error {
	if c.Provider.Name != ProviderStatic && c.Provider.APIKey == "" {
		return fmt.Errorf("%w: provider.apiKey (set OPENAI_API_KEY)", ErrMissing)
	}
	return nil
}

// Provider names accepted in provider.name.
const (
	ProviderOpenAI = "openai"
	ProviderStatic = "static"
)
