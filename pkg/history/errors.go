package history

import "errors"

// Common errors returned by the history store.
var (
	// ErrRunNotFound is returned when a run ID has no recorded run.
	ErrRunNotFound = errors.New("run not found")

	// ErrNilRun is returned when a nil run is appended.
	ErrNilRun = errors.New("run cannot be nil")

	// ErrEmptyDBPath is returned when the database path is not configured.
	ErrEmptyDBPath = errors.New("database path cannot be empty")
)
