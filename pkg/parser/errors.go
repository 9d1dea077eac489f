package parser

import "errors"

// Common errors returned by the parser package.
var (
	// ErrEmptyLine is returned when a record line is empty.
	ErrEmptyLine = errors.New("empty line")

	// ErrFieldCount is returned when a line has fewer fields than the layout requires.
	ErrFieldCount = errors.New("invalid field count: record is missing columns")

	// ErrEmptyDevice is returned when the device column is empty after trimming.
	ErrEmptyDevice = errors.New("invalid device: must not be empty")

	// ErrDeviceTooLong is returned when a device identifier exceeds MaxDeviceLen.
	ErrDeviceTooLong = errors.New("invalid device: exceeds maximum length")

	// ErrInvalidDate is returned when the date column cannot be reduced to a
	// (year, month) pair, or the pair is out of range.
	ErrInvalidDate = errors.New("invalid date: want YYYY-MM prefix with month 1-12")

	// ErrInvalidValue is returned when a sensor column is not a valid number.
	ErrInvalidValue = errors.New("invalid sensor value: not a number")

	// ErrUnknownChannel is returned when a channel label is not one of the six
	// fixed sensor channels.
	ErrUnknownChannel = errors.New("unknown sensor channel")
)

// ParseError provides context about a single-record parsing failure.
//
// Malformed records are skipped and counted by the reader, never fatal;
// the error carries enough context to make the skip diagnosable.
type ParseError struct {
	Field string // Column label where parsing failed (empty if structural)
	Data  string // The offending token or line (truncated if too long)
	Err   error  // Underlying error
}

func (e *ParseError) Error() string {
	const maxLen = 100
	data := e.Data
	if len(data) > maxLen {
		data = data[:maxLen] + "..."
	}
	if e.Field != "" {
		return "parse error: field " + e.Field + ": " + quote(data) + ": " + e.Err.Error()
	}
	return "parse error: " + quote(data) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// quote wraps a token in double quotes without importing strconv here.
func quote(s string) string {
	return `"` + s + `"`
}
