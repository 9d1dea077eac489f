// Package config provides configuration management for sensor-stats.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority, applied by the caller)
// 2. Environment variables (SENSOR_STATS_*, optionally from a .env file)
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("input: %s cutoff: %s\n", cfg.Input.Path, cfg.Input.CutoffMonth)
package config

import (
	"time"

	"github.com/hmaia/sensor-stats/pkg/parser"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Input.Path must not be empty
// - Input.CutoffMonth must be a valid YYYY-MM month
// - Output.Path must not be empty
// - Engine.Workers must be >= 0 (0 selects the CPU count)
// - Display.Format must be a known format
// - Display.GraphHeight must be > 0
// - History.DBPath must not be empty while history is enabled
// - Watch.Debounce must be > 0.
type Config struct {
	// Input settings
	Input InputConfig `yaml:"input"`

	// Output settings
	Output OutputConfig `yaml:"output"`

	// Aggregation engine settings
	Engine EngineConfig `yaml:"engine"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Run history settings
	History HistoryConfig `yaml:"history"`

	// Watch mode settings
	Watch WatchConfig `yaml:"watch"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig contains reading ingestion settings.
type InputConfig struct {
	// Reading file, or a directory scanned for .csv files
	Path string `yaml:"path"`

	// First retained month, formatted YYYY-MM; earlier records are dropped
	CutoffMonth string `yaml:"cutoff_month"`

	// Maximum length of a single input line in bytes
	MaxLineSize int `yaml:"max_line_size"`
}

// OutputConfig contains report output settings.
type OutputConfig struct {
	// Report file written by batch runs
	Path string `yaml:"path"`
}

// EngineConfig contains aggregation engine settings.
type EngineConfig struct {
	// Worker count; 0 selects the machine's CPU count
	Workers int `yaml:"workers"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Default stats format (table, json, simple, graph)
	Format string `yaml:"format"`

	// Compact output (less whitespace)
	Compact bool `yaml:"compact"`

	// Plot height in rows for the graph format
	GraphHeight int `yaml:"graph_height"`
}

// HistoryConfig contains run history settings.
type HistoryConfig struct {
	// Record batch runs in the history ledger
	Enabled bool `yaml:"enabled"`

	// Path to the BoltDB ledger file
	DBPath string `yaml:"db_path"`
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	// Quiet period before an input change triggers a re-run
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Returns an error if any invariant is violated:
//   - Empty input or output path
//   - Malformed cutoff month
//   - Negative worker count
//   - Unknown display format or non-positive graph height
//   - History enabled without a database path
//   - Non-positive watch debounce
//   - Unknown log level or format
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return ErrNoInputPath
	}
	if _, _, err := parser.ParseYearMonth(c.Input.CutoffMonth); err != nil {
		return ErrInvalidCutoffMonth
	}
	if c.Input.MaxLineSize <= 0 {
		return ErrInvalidMaxLineSize
	}

	if c.Output.Path == "" {
		return ErrNoOutputPath
	}

	if c.Engine.Workers < 0 {
		return ErrInvalidWorkers
	}

	validFormats := map[string]bool{
		"table":  true,
		"json":   true,
		"simple": true,
		"graph":  true,
	}
	if !validFormats[c.Display.Format] {
		return ErrInvalidDisplayFormat
	}
	if c.Display.GraphHeight <= 0 {
		return ErrInvalidGraphHeight
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return ErrNoHistoryDBPath
	}

	if c.Watch.Debounce <= 0 {
		return ErrInvalidDebounce
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}
