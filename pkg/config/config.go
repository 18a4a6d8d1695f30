// Package config loads the back-office application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config filename inside the config directory.
const FileName = "config.yaml"

// Config captures runtime settings shared by the CLI and the example server.
type Config struct {
	// BaseURL is the operations API root, e.g. https://api.example.com/v1.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each API round-trip.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// ScreenManifest optionally points at a YAML settings-screen manifest.
	ScreenManifest string `yaml:"screen_manifest,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BaseURL:  "http://localhost:8080/api",
		Timeout:  10 * time.Second,
		LogLevel: "info",
	}
}

// Load reads the config file under dir, overlaying defaults. A missing file
// yields the defaults without error.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write persists the configuration to dir, creating it if needed.
func Write(dir string, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", dir, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
