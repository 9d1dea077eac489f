// Package display provides output formatting for aggregated sensor
// statistics.
//
// It supports table, JSON, simple text and ASCII graph formats, plus
// rendering of load summaries and run history listings.
package display

import (
	"io"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/history"
	"github.com/hmaia/sensor-stats/pkg/reader"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays statistics in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays statistics as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays statistics in simple text format.
	FormatSimple Format = "simple"

	// FormatGraph plots monthly averages as ASCII charts.
	FormatGraph Format = "graph"
)

// Formatter formats and displays aggregated statistics.
type Formatter interface {
	// FormatStats renders the aggregation table, honoring the configured
	// device and channel filters.
	//
	// Parameters:
	//   - w: Output writer
	//   - table: Aggregated statistics to render
	//
	// Returns error if formatting fails.
	FormatStats(w io.Writer, table *aggregator.Table) error

	// FormatSummary renders the load counters of a run.
	//
	// Parameters:
	//   - w: Output writer
	//   - summary: Reader counters to render
	//
	// Returns error if formatting fails.
	FormatSummary(w io.Writer, summary reader.Summary) error

	// FormatRuns renders a run history listing, newest first.
	//
	// Parameters:
	//   - w: Output writer
	//   - runs: Runs to render
	//
	// Returns error if formatting fails.
	FormatRuns(w io.Writer, runs []*history.Run) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// Device restricts output to one device. Empty means all devices.
	Device string

	// Channel restricts output to one channel label. Empty means all
	// channels.
	Channel string

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool

	// GraphHeight is the plot height in rows for FormatGraph.
	// Default: 10.
	GraphHeight int

	// GraphWidth is the plot width in columns for FormatGraph.
	// Default: derived from the terminal width.
	GraphWidth int
}
