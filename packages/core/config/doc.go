// Package config handles configuration loading and management for fixspec.
//
// It provides functionality for:
//   - Loading configuration from .fixspec.yaml, .fixspec.yml or fixspec.json
//   - Default configuration values
//   - Merging command line overrides over file settings
package config
