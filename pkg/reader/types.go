// Package reader loads sensor reading files into memory for aggregation.
//
// A Loader reads a whole pipe-delimited file, skips the header row, parses
// every data line, and keeps the records dated on or after the configured
// cutoff month. Malformed lines are counted and skipped rather than failing
// the load.
//
// Example usage:
//
//	loader := reader.New(reader.Config{}, log)
//	records, summary, err := loader.Load(ctx, "devices.csv")
//	if err != nil {
//		return err
//	}
//	log.Info("loaded", "kept", summary.Kept, "malformed", summary.Malformed)
package reader

import (
	"context"
	"fmt"
	"time"

	"github.com/hmaia/sensor-stats/pkg/parser"
)

// Default configuration values.
const (
	// DefaultMaxLineSize is the maximum length of a single input line.
	DefaultMaxLineSize = 1024 * 1024 // 1MB

	// DefaultMaxFileSize bounds the input size, since files are loaded
	// whole into memory.
	DefaultMaxFileSize = 256 * 1024 * 1024 // 256MB

	// DefaultMaxRetries is the number of retries for transient open errors.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay between retries.
	DefaultRetryDelay = 100 * time.Millisecond
)

// Cutoff is the first (year, month) whose readings are retained. Records
// dated before it are dropped during the load.
type Cutoff struct {
	Year  int
	Month int
}

// DefaultCutoff keeps readings from March 2024 onward.
var DefaultCutoff = Cutoff{Year: 2024, Month: 3}

// ParseCutoff parses a YYYY-MM string into a Cutoff.
func ParseCutoff(s string) (Cutoff, error) {
	year, month, err := parser.ParseYearMonth(s)
	if err != nil {
		return Cutoff{}, fmt.Errorf("%w: %q", ErrInvalidCutoff, s)
	}
	return Cutoff{Year: year, Month: month}, nil
}

// Keep reports whether a record dated (year, month) is retained.
func (c Cutoff) Keep(year, month int) bool {
	return year > c.Year || (year == c.Year && month >= c.Month)
}

// String renders the cutoff as YYYY-MM.
func (c Cutoff) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, c.Month)
}

// MonthName renders the cutoff as a human-readable month, e.g. "March 2024".
func (c Cutoff) MonthName() string {
	if c.Month < 1 || c.Month > 12 {
		return c.String()
	}
	return fmt.Sprintf("%s %d", time.Month(c.Month), c.Year)
}

// Summary reports what a load saw and what it kept.
type Summary struct {
	// Lines is the number of data lines scanned, excluding the header.
	Lines int

	// Kept is the number of records retained after filtering.
	Kept int

	// Filtered is the number of well-formed records dropped by the cutoff.
	Filtered int

	// Malformed is the number of lines that failed to parse.
	Malformed int
}

// add accumulates another summary, for multi-file loads.
func (s *Summary) add(o Summary) {
	s.Lines += o.Lines
	s.Kept += o.Kept
	s.Filtered += o.Filtered
	s.Malformed += o.Malformed
}

// Loader reads sensor reading files into memory.
type Loader interface {
	// Load reads a single file and returns the retained records.
	Load(ctx context.Context, path string) ([]parser.Record, Summary, error)

	// LoadAll reads several files in order and concatenates their records.
	LoadAll(ctx context.Context, paths []string) ([]parser.Record, Summary, error)
}

// Config holds reader configuration.
type Config struct {
	// Parser parses individual lines. Defaults to parser.New().
	Parser parser.Parser

	// Cutoff is the retention boundary. The zero value means DefaultCutoff.
	Cutoff Cutoff

	// MaxLineSize is the maximum length of a single line in bytes.
	MaxLineSize int

	// MaxFileSize is the maximum input file size in bytes.
	MaxFileSize int64

	// MaxRetries is the number of retries for transient open errors.
	MaxRetries int

	// RetryDelay is the base delay between retries, doubled each attempt.
	RetryDelay time.Duration
}
