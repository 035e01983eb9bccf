// Package config loads CLI configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the YAML configuration for the CLI.
type Config struct {
	// CacheDir is the directory holding encrypted secret cache entries.
	// Defaults to <user cache dir>/af-pqc.
	CacheDir string `yaml:"cache_dir"`

	// AuditLog is the path to the JSONL audit log. Empty disables auditing.
	AuditLog string `yaml:"audit_log"`

	// WitnessTokenDir is the directory holding witness tokens (*.cwt).
	// Empty means no witness is configured.
	WitnessTokenDir string `yaml:"witness_token_dir"`

	// AllowUnattested permits key binding to proceed without a witness.
	AllowUnattested bool `yaml:"allow_unattested"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cacheDir := ""
	if base, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(base, "af-pqc")
	}
	return &Config{CacheDir: cacheDir}
}

// Load loads configuration from a YAML file, filling defaults for
// fields the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir is required (no user cache directory available)")
	}
	if c.WitnessTokenDir != "" {
		info, err := os.Stat(c.WitnessTokenDir)
		if err != nil {
			return fmt.Errorf("witness_token_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("witness_token_dir is not a directory: %s", c.WitnessTokenDir)
		}
	}
	return nil
}
