package config

import (
	"os"
	"path/filepath"
	"time"
)

// Defaults reproducing the original fixed batch behavior.
const (
	// DefaultInputPath is the reading file loaded when none is configured.
	DefaultInputPath = "devices.csv"

	// DefaultOutputPath is the report file written when none is configured.
	DefaultOutputPath = "sensor_stats.csv"

	// DefaultCutoffMonth keeps readings from March 2024 onward.
	DefaultCutoffMonth = "2024-03"
)

// Default returns a configuration with sensible default values.
//
// The input, output and cutoff defaults reproduce the fixed filenames
// and date filter of the original batch tool; everything else is tuned
// for typical interactive use.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:        DefaultInputPath,
			CutoffMonth: DefaultCutoffMonth,
			MaxLineSize: 1024 * 1024, // 1MB
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Engine: EngineConfig{
			Workers: 0, // CPU count
		},
		Display: DisplayConfig{
			Format:      "table",
			Compact:     false,
			GraphHeight: 10,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  defaultHistoryDBPath(),
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}

// defaultHistoryDBPath returns the default run ledger path.
//
// Returns: ~/.local/share/sensor-stats/history.db.
func defaultHistoryDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./history.db"
	}

	return filepath.Join(homeDir, ".local", "share", "sensor-stats", "history.db")
}

// defaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/sensor-stats/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "sensor-stats", "config.yaml")
}
