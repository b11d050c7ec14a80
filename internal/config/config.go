// Package config loads the acad client configuration: defaults, then
// ~/.acadconnect/config.yaml, then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all acad client configuration.
type Config struct {
	// API endpoint settings
	API APIConfig `yaml:"api"`

	// UI settings
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// StateDir is where the token and logs live. Not read from the
	// config file (the file lives inside it); set from default or env.
	StateDir string `yaml:"-"`
}

// APIConfig configures the backend endpoint.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the TUI.
type UIConfig struct {
	Theme string `yaml:"theme"` // light or dark
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultStateDir returns ~/.acadconnect, or a relative fallback when
// the home directory cannot be resolved.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".acadconnect"
	}
	return filepath.Join(home, ".acadconnect")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: "15s",
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		StateDir: DefaultStateDir(),
	}
}

// Load loads configuration from the state directory's config.yaml,
// falling back to defaults when the file does not exist, then applies
// environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if dir := os.Getenv("ACAD_STATE_DIR"); dir != "" {
		cfg.StateDir = dir
	}

	path := filepath.Join(cfg.StateDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to the state directory's config.yaml.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.StateDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(c.StateDir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over the file.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("ACAD_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if timeout := os.Getenv("ACAD_API_TIMEOUT"); timeout != "" {
		c.API.Timeout = timeout
	}
	if theme := os.Getenv("ACAD_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv("ACAD_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if os.Getenv("ACAD_DEBUG") == "1" || os.Getenv("ACAD_DEBUG") == "true" {
		c.Logging.DebugMode = true
	}
}

// RequestTimeout parses the API timeout, falling back to 15s on a bad
// value.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
