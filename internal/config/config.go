// Package config loads maitred configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all maitred configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM capability configuration
	LLM LLMConfig `yaml:"llm"`

	// SQLite-backed restaurant store
	Store StoreConfig `yaml:"store"`

	// Specialist dispatch retry policy
	Dispatcher DispatcherConfig `yaml:"dispatcher"`

	// Customer memory behavior
	Memory MemoryConfig `yaml:"memory"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the NLU capability clients.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, anthropic
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// StoreConfig configures the restaurant database.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
	StateDir     string `yaml:"state_dir"`
}

// DispatcherConfig configures specialist retry/backoff.
type DispatcherConfig struct {
	MaxRetries int    `yaml:"max_retries"` // retries after the first attempt
	BaseDelay  string `yaml:"base_delay"`  // first backoff delay; doubles each attempt
}

// MemoryConfig configures the customer memory service.
type MemoryConfig struct {
	// Disable best-effort "for <Name>" customer resolution from raw messages.
	DisableNameResolution bool `yaml:"disable_name_resolution"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "maitred",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider: "openai",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434/v1",
			Timeout:  "120s",
		},

		Store: StoreConfig{
			DatabasePath: "data/restaurant.db",
			StateDir:     ".maitred",
		},

		Dispatcher: DispatcherConfig{
			MaxRetries: 2,
			BaseDelay:  "1s",
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist.
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

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("MAITRED_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if provider := os.Getenv("MAITRED_LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	if model := os.Getenv("MAITRED_LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if url := os.Getenv("MAITRED_LLM_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if path := os.Getenv("MAITRED_DB_PATH"); path != "" {
		c.Store.DatabasePath = path
	}
}

// GetLLMTimeout parses the LLM timeout, defaulting to 120s.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// GetBaseDelay parses the dispatcher base delay, defaulting to 1s.
func (c *Config) GetBaseDelay() time.Duration {
	d, err := time.ParseDuration(c.Dispatcher.BaseDelay)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path is required")
	}
	if c.Dispatcher.MaxRetries < 0 {
		return fmt.Errorf("dispatcher.max_retries must be >= 0")
	}
	return nil
}
