// Package config provides configuration loading and management for
// voxeldist. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"voxeldist/pkg/edt"
	"voxeldist/pkg/volume"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Transform parameters
	Transform struct {
		// OutputKind selects the result encoding: "float" for plain
		// distances or "short" for fixed-point distances
		OutputKind string `yaml:"outputKind"`

		// Workers caps the number of concurrent lanes per transform
		// pass; values below 2 run sequentially
		Workers int `yaml:"workers"`
	} `yaml:"transform"`

	// Report parameters
	Report struct {
		// Verbose controls whether stage progress is printed
		Verbose bool `yaml:"verbose"`

		// Summary controls whether result statistics are printed
		Summary bool `yaml:"summary"`
	} `yaml:"report"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default transform parameters
	cfg.Transform.OutputKind = "float"
	cfg.Transform.Workers = runtime.NumCPU() // Use all available cores by default

	// Set default report parameters
	cfg.Report.Verbose = true
	cfg.Report.Summary = false

	return cfg
}

// Kind maps the configured output kind onto a volume kind
func (c *Config) Kind() (volume.Kind, error) {
	switch strings.ToLower(c.Transform.OutputKind) {
	case "float":
		return volume.Float, nil
	case "short":
		return volume.Short, nil
	default:
		return 0, fmt.Errorf("config: unknown output kind %q", c.Transform.OutputKind)
	}
}

// Options builds transform options from the configuration. Progress
// reporting needs a sink and stays with the caller.
func (c *Config) Options() edt.Options {
	return edt.Options{Workers: c.Transform.Workers}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
