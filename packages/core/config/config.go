package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the fixspec configuration
type Config struct {
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`         // console, json, junit, tap
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // write the report here instead of stdout
	Filter     string `json:"filter,omitempty" yaml:"filter,omitempty"`         // test name pattern
	Bail       *bool  `json:"bail,omitempty" yaml:"bail,omitempty"`
	Verbose    *bool  `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor    *bool  `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	LogLevel   string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat  string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
	Hooks      Hooks  `json:"hooks,omitempty" yaml:"hooks,omitempty"`
}

// Hooks are shell commands run before and after the suite
type Hooks struct {
	Before []string `json:"before,omitempty" yaml:"before,omitempty"`
	After  []string `json:"after,omitempty" yaml:"after,omitempty"`
}

// BoolPtr returns a pointer to b, for explicit overrides in Merge
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".fixspec.yaml",
	".fixspec.yml",
	"fixspec.json",
	".fixspec.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. Files ending
// in .json are JSON, everything else is YAML.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if isJSON(path) {
		err = json.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Validate checks values that have a fixed set of choices
func (c *Config) Validate() error {
	if c.Output != "" && !contains(OutputFormats, c.Output) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("unknown log format %q (want json or text)", c.LogFormat)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Filter != "" {
		result.Filter = other.Filter
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Hooks.Before) > 0 {
		result.Hooks.Before = other.Hooks.Before
	}
	if len(other.Hooks.After) > 0 {
		result.Hooks.After = other.Hooks.After
	}

	return &result
}

// SaveConfig saves the configuration to a file, as JSON or YAML depending
// on the extension
func (c *Config) SaveConfig(path string) error {
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
