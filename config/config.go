// Package config provides configuration loading and management for docpp.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog types understood by the loader.
const (
	CatalogValues = "values"
	CatalogFields = "fields"
)

// classPattern matches directive class names as they appear in input lines.
var classPattern = regexp.MustCompile(`^[A-Z_]+$`)

// Config represents the complete docpp configuration
type Config struct {
	// Log configures diagnostic output
	Log LogConfig `yaml:"log"`
	// Catalogs maps directive class names to the catalog files that back
	// them
	Catalogs map[string]CatalogConfig `yaml:"catalogs"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	// Level is the minimum level to emit (debug, info, warn, error)
	Level string `yaml:"level"`
}

// CatalogConfig wires one directive class to a catalog file
type CatalogConfig struct {
	// Type is the catalog shape: "values" or "fields"
	Type string `yaml:"type"`
	// Path is the catalog file location; relative paths are resolved
	// against the directory of the config file that declared them
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Catalogs: map[string]CatalogConfig{},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	for class, catalog := range c.Catalogs {
		if !classPattern.MatchString(class) {
			return fmt.Errorf("catalog class %q must be uppercase letters and underscores", class)
		}
		if catalog.Type != CatalogValues && catalog.Type != CatalogFields {
			return fmt.Errorf("catalog %s: type %q must be %q or %q",
				class, catalog.Type, CatalogValues, CatalogFields)
		}
		if catalog.Path == "" {
			return fmt.Errorf("catalog %s: path is required", class)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. Only keys present in
// the file are set, so the result can be merged over defaults or over a
// lower-precedence config. Relative catalog paths are resolved against the
// file's directory.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.resolveCatalogPaths(filepath.Dir(path))
	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// values it sets)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if c.Catalogs == nil && len(other.Catalogs) > 0 {
		c.Catalogs = make(map[string]CatalogConfig, len(other.Catalogs))
	}
	for class, catalog := range other.Catalogs {
		c.Catalogs[class] = catalog
	}
}

// resolveCatalogPaths rewrites relative catalog paths against base so the
// config means the same thing regardless of the working directory.
func (c *Config) resolveCatalogPaths(base string) {
	for class, catalog := range c.Catalogs {
		if catalog.Path != "" && !filepath.IsAbs(catalog.Path) {
			catalog.Path = filepath.Join(base, catalog.Path)
			c.Catalogs[class] = catalog
		}
	}
}
