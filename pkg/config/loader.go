package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, searches for a config file in:
// 1. ./sensor-stats.yaml (current directory)
// 2. ~/.config/sensor-stats/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	// Pull a local .env into the process environment before the env scan.
	// A missing file is the normal case, not an error.
	_ = godotenv.Load()

	// Start with default configuration
	cfg := Default()

	// Find config file path
	configPath := l.configPath
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	// Load from file if it exists
	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// If file is specified but can't be loaded, return error
			if l.configPath != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			// Otherwise, just use defaults
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
		}
	}

	// Apply environment variable overrides
	cfg = l.applyEnvVars(cfg)

	// Validate final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// findConfigFile searches for a config file in standard locations.
//
// Searches in order:
// 1. ./sensor-stats.yaml
// 2. ~/.config/sensor-stats/config.yaml
//
// Returns empty string if no config file is found.
func (l *loader) findConfigFile() string {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SearchPaths returns the config file locations probed when no explicit
// path is given, in precedence order.
func SearchPaths() []string {
	return []string{
		"./sensor-stats.yaml",
		defaultConfigPath(),
	}
}

// mergeConfigs merges file configuration into default configuration.
//
// File values override defaults, but only if they are non-zero; the
// boolean fields (compact output, history enabled) always take the file
// value.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	// Merge input config
	if override.Input.Path != "" {
		result.Input.Path = override.Input.Path
	}
	if override.Input.CutoffMonth != "" {
		result.Input.CutoffMonth = override.Input.CutoffMonth
	}
	if override.Input.MaxLineSize > 0 {
		result.Input.MaxLineSize = override.Input.MaxLineSize
	}

	// Merge output config
	if override.Output.Path != "" {
		result.Output.Path = override.Output.Path
	}

	// Merge engine config
	if override.Engine.Workers > 0 {
		result.Engine.Workers = override.Engine.Workers
	}

	// Merge display config
	if override.Display.Format != "" {
		result.Display.Format = override.Display.Format
	}
	// Compact is a bool, so we always take the override value
	result.Display.Compact = override.Display.Compact
	if override.Display.GraphHeight > 0 {
		result.Display.GraphHeight = override.Display.GraphHeight
	}

	// Merge history config
	// Enabled is a bool, so we always take the override value
	result.History.Enabled = override.History.Enabled
	if override.History.DBPath != "" {
		result.History.DBPath = override.History.DBPath
	}

	// Merge watch config
	if override.Watch.Debounce > 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}

	// Merge logging config
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - SENSOR_STATS_INPUT: Input file or directory
//   - SENSOR_STATS_OUTPUT: Report file path
//   - SENSOR_STATS_CUTOFF: Cutoff month (YYYY-MM)
//   - SENSOR_STATS_WORKERS: Worker count
//   - SENSOR_STATS_DB: History database path
//   - SENSOR_STATS_LOG_LEVEL: Log level
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if input := os.Getenv("SENSOR_STATS_INPUT"); input != "" {
		result.Input.Path = input
	}

	if output := os.Getenv("SENSOR_STATS_OUTPUT"); output != "" {
		result.Output.Path = output
	}

	if cutoff := os.Getenv("SENSOR_STATS_CUTOFF"); cutoff != "" {
		result.Input.CutoffMonth = strings.TrimSpace(cutoff)
	}

	if workers := os.Getenv("SENSOR_STATS_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(workers)); err == nil && n >= 0 {
			result.Engine.Workers = n
		}
	}

	if dbPath := os.Getenv("SENSOR_STATS_DB"); dbPath != "" {
		result.History.DBPath = dbPath
	}

	if logLevel := os.Getenv("SENSOR_STATS_LOG_LEVEL"); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
//
// Equivalent to:
//
//	loader := NewLoader("")
//	return loader.Load()
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
//
// Equivalent to:
//
//	loader := NewLoader(path)
//	return loader.Load()
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
