// Package config loads the meetinglens configuration from an optional YAML
// file with environment overrides for credentials and endpoints.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in configuration.
const (
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
	BackendOllama    = "ollama"
)

// Config is the full tool configuration. Zero values fall back to defaults
// at load time.
type Config struct {
	// Backend selects the chat completion vendor.
	Backend string `yaml:"backend"`
	// Model overrides the backend's default model identifier.
	Model string `yaml:"model"`
	// OutputDir is where artifacts are written.
	OutputDir string `yaml:"output_dir"`

	// Call tuning; seconds granularity matches how operators think about
	// these knobs.
	Temperature                 float64 `yaml:"temperature"`
	MaxOutputTokens             int64   `yaml:"max_output_tokens"`
	TimeoutSeconds              float64 `yaml:"timeout_seconds"`
	MaxRetries                  int     `yaml:"max_retries"`
	BaseRetryDelaySeconds       float64 `yaml:"base_retry_delay_seconds"`
	RateLimitMinIntervalSeconds float64 `yaml:"rate_limit_min_interval_seconds"`

	// Stability run tuning.
	Trials               int     `yaml:"trials"`
	TrialIntervalSeconds float64 `yaml:"trial_interval_seconds"`

	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Ollama    OllamaConfig    `yaml:"ollama"`
}

// OpenAIConfig holds the OpenAI-compatible backend settings. The API key is
// environment-only and never read from the file.
type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	apiKey  string
}

// APIKey returns the key resolved from the environment.
func (c OpenAIConfig) APIKey() string { return c.apiKey }

// AnthropicConfig holds the Anthropic backend settings.
type AnthropicConfig struct {
	apiKey string
}

// APIKey returns the key resolved from the environment.
func (c AnthropicConfig) APIKey() string { return c.apiKey }

// OllamaConfig holds the Ollama backend settings.
type OllamaConfig struct {
	Host string `yaml:"host"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Backend:               BackendOpenAI,
		OutputDir:             "artifacts",
		Temperature:           0.2,
		MaxOutputTokens:       4096,
		TimeoutSeconds:        120,
		MaxRetries:            3,
		BaseRetryDelaySeconds: 2,
		Trials:                3,
		TrialIntervalSeconds:  5,
	}
}

// Load reads the configuration file at path (optional; an empty path or a
// missing default file yields Default) and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.OpenAI.apiKey = os.Getenv("OPENAI_API_KEY")
	c.Anthropic.apiKey = os.Getenv("ANTHROPIC_API_KEY")
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Ollama.Host = host
	}
}

// Validate rejects unusable settings. A missing API key is not an error
// here; it surfaces as auth_missing at first call.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOpenAI, BackendAnthropic, BackendOllama:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// Timeout returns the per-attempt timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// BaseRetryDelay returns the backoff base as a duration.
func (c *Config) BaseRetryDelay() time.Duration {
	return time.Duration(c.BaseRetryDelaySeconds * float64(time.Second))
}

// RateLimitMinInterval returns the pacing interval as a duration.
func (c *Config) RateLimitMinInterval() time.Duration {
	return time.Duration(c.RateLimitMinIntervalSeconds * float64(time.Second))
}

// TrialInterval returns the inter-trial pause as a duration.
func (c *Config) TrialInterval() time.Duration {
	return time.Duration(c.TrialIntervalSeconds * float64(time.Second))
}
