package reader

import "errors"

// Common errors returned by the reader.
var (
	// ErrInputUnavailable is returned when the input file is missing or
	// unreadable. Fatal for a batch run.
	ErrInputUnavailable = errors.New("input file unavailable")

	// ErrFileTooLarge is returned when the input exceeds the maximum size.
	ErrFileTooLarge = errors.New("input file exceeds maximum size")

	// ErrNoInputs is returned when a multi-file load receives no paths.
	ErrNoInputs = errors.New("no input files to load")

	// ErrInvalidCutoff is returned when a cutoff month string cannot be
	// parsed as YYYY-MM.
	ErrInvalidCutoff = errors.New("invalid cutoff month: want YYYY-MM")
)
