package config

// OutputFormats lists the supported report formats
var OutputFormats = []string{"console", "json", "junit", "tap"}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Output:    "console",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.Filter == defaults.Filter &&
		c.LogLevel == defaults.LogLevel &&
		c.LogFormat == defaults.LogFormat &&
		!c.GetBail() &&
		!c.GetVerbose() &&
		!c.GetNoColor() &&
		len(c.Hooks.Before) == 0 &&
		len(c.Hooks.After) == 0
}
