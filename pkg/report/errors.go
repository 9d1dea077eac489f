package report

import "errors"

// Common errors returned by the report package.
var (
	// ErrOutputUnavailable is returned when the output file cannot be created.
	ErrOutputUnavailable = errors.New("output file unavailable")

	// ErrNilTable is returned when a nil table is passed to a writer.
	ErrNilTable = errors.New("table cannot be nil")
)
