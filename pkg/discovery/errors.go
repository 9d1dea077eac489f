package discovery

import "errors"

// Common errors returned by the discovery package.
var (
	// ErrPathNotFound is returned when the input path does not exist.
	ErrPathNotFound = errors.New("input path not found")

	// ErrNoInputFiles is returned when a directory contains no input files.
	ErrNoInputFiles = errors.New("no input files found")
)
