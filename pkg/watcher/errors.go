package watcher

import "errors"

// Common errors returned by the watcher.
var (
	// ErrWatcherClosed is returned when operating on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrAlreadyStarted is returned when starting a running watcher.
	ErrAlreadyStarted = errors.New("watcher already started")

	// ErrNotStarted is returned when stopping a watcher that never started.
	ErrNotStarted = errors.New("watcher not started")

	// ErrInvalidPath is returned when no watchable path remains after
	// skipping missing ones.
	ErrInvalidPath = errors.New("no valid paths to watch")

	// ErrCircuitBreakerOpen is returned when repeated notification
	// failures exceed the configured threshold.
	ErrCircuitBreakerOpen = errors.New("circuit breaker open: too many watch failures")
)
