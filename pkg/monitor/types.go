package monitor

import (
	"context"
	"time"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/reader"
)

// Triggers name the cause of an update.
const (
	// TriggerInitial marks the baseline pass run during Start.
	TriggerInitial = "initial"

	// TriggerChange marks a pass run after an input file change.
	TriggerChange = "change"

	// TriggerWatch marks an update carrying a watcher error.
	TriggerWatch = "watch"
)

// Config holds the configuration for the file monitor.
type Config struct {
	// InputPath is the file or directory re-aggregated on every change
	InputPath string
}

// Monitor re-runs the full statistics pipeline whenever the watched
// inputs change.
type Monitor interface {
	// Start runs a baseline pass, registers the watches, and begins
	// processing change events in the background
	Start(ctx context.Context) error

	// Stop stops the monitor gracefully
	Stop() error

	// Updates returns the channel refresh results are delivered on
	Updates() <-chan Update

	// Table returns the table produced by the latest successful pass
	Table() *aggregator.Table

	// Close releases resources and closes the updates channel
	Close() error
}

// Update represents the outcome of one pipeline pass.
type Update struct {
	// Timestamp of the pass
	Timestamp time.Time

	// Trigger names what caused the pass
	Trigger string

	// Table is the freshly aggregated statistics (nil when Err is set)
	Table *aggregator.Table

	// Summary counts the input lines behind the table
	Summary reader.Summary

	// Duration is how long the full pass took
	Duration time.Duration

	// Err is set when the pass failed
	Err error
}
