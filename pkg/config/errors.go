package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoInputPath is returned when the input path is empty.
	ErrNoInputPath = errors.New("no input path specified")

	// ErrInvalidCutoffMonth is returned when the cutoff month is not a valid YYYY-MM.
	ErrInvalidCutoffMonth = errors.New("invalid cutoff month: must be YYYY-MM")

	// ErrInvalidMaxLineSize is returned when the maximum line size is <= 0.
	ErrInvalidMaxLineSize = errors.New("invalid max line size: must be > 0")

	// ErrNoOutputPath is returned when the output path is empty.
	ErrNoOutputPath = errors.New("no output path specified")

	// ErrInvalidWorkers is returned when the worker count is negative.
	ErrInvalidWorkers = errors.New("invalid worker count: must be >= 0")

	// ErrInvalidDisplayFormat is returned when the display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, simple, or graph")

	// ErrInvalidGraphHeight is returned when the graph height is <= 0.
	ErrInvalidGraphHeight = errors.New("invalid graph height: must be > 0")

	// ErrNoHistoryDBPath is returned when history is enabled without a database path.
	ErrNoHistoryDBPath = errors.New("no history database path specified")

	// ErrInvalidDebounce is returned when the watch debounce is <= 0.
	ErrInvalidDebounce = errors.New("invalid watch debounce: must be > 0")

	// ErrInvalidLogLevel is returned when the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when the log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when the config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
