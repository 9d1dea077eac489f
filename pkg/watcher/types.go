// Package watcher provides file system monitoring for sensor input files.
//
// It uses fsnotify to watch for changes to input files and provides event
// debouncing, so a burst of writes during a file rewrite produces a single
// event.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 500 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"devices.csv"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("File %s: %s\n", event.Path, event.Op)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
	OpChmod                 // File permissions changed
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Event represents a file system event on a watched input.
type Event struct {
	// Path is the path of the file that triggered the event.
	Path string

	// Op is the operation that triggered the event.
	Op Op

	// Timestamp is when the event was observed.
	Timestamp time.Time
}

// Watcher provides file system monitoring.
type Watcher interface {
	// Start begins watching the specified paths and returns once the
	// watches are registered. Event delivery happens in the background
	// until the context is cancelled or the watcher is stopped.
	//
	// Parameters:
	//   - ctx: Context bounding the background event loop
	//   - paths: Input files or directories to watch
	//
	// A path naming a file narrows events to that file; a directory
	// matches every .csv inside it. Missing paths are skipped with a
	// warning; ErrInvalidPath is returned when none remain.
	Start(ctx context.Context, paths []string) error

	// Stop shuts down the background event loop.
	//
	// Returns ErrNotStarted if the watcher never started.
	Stop() error

	// Events returns the channel for receiving debounced file events.
	//
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel for receiving non-fatal watch errors.
	//
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close closes the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the quiet period before an event is emitted.
	// Multiple events for the same file within the interval coalesce.
	// Default: 500ms.
	DebounceInterval time.Duration

	// CircuitBreakerThreshold is the number of consecutive notification
	// failures after which ErrCircuitBreakerOpen is reported.
	// Default: 5.
	CircuitBreakerThreshold int
}
