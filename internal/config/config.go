// Package config loads wanicoach configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all wanicoach configuration.
type Config struct {
	WaniKani WaniKaniConfig `yaml:"wanikani"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WaniKaniConfig configures the flashcard API client.
type WaniKaniConfig struct {
	APIToken string `yaml:"api_token"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	// Minutes is the default look-back window for the vocab command.
	Minutes int `yaml:"minutes"`
}

// GeminiConfig configures the generation client.
type GeminiConfig struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		WaniKani: WaniKaniConfig{
			BaseURL: "https://api.wanikani.com/v2",
			Timeout: "30s",
			Minutes: 30,
		},
		Gemini: GeminiConfig{
			Model:           "gemini-2.5-flash",
			Temperature:     0.7,
			MaxOutputTokens: 16384,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Environment
// wins over the file so a token never has to live on disk.
func (c *Config) applyEnvOverrides() {
	if token := os.Getenv("WANIKANI_API_TOKEN"); token != "" {
		c.WaniKani.APIToken = token
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if base := os.Getenv("WANIKANI_BASE_URL"); base != "" {
		c.WaniKani.BaseURL = base
	}
}

// GetRequestTimeout returns the per-request timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.WaniKani.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ValidateWaniKani checks that the flashcard client can be constructed.
func (c *Config) ValidateWaniKani() error {
	if c.WaniKani.APIToken == "" {
		return fmt.Errorf("WaniKani API token not configured (set WANIKANI_API_TOKEN or --api-token)")
	}
	return nil
}

// ValidateGemini checks that the generation client can be constructed.
func (c *Config) ValidateGemini() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key not configured (set GEMINI_API_KEY)")
	}
	return nil
}
