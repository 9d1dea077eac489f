package display

import (
	"fmt"
	"io"
	"time"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/history"
	"github.com/hmaia/sensor-stats/pkg/reader"
)

// simpleFormatter formats output as plain text lines, one fact per line.
type simpleFormatter struct {
	config Config
	sel    selection
}

// FormatStats implements Formatter.FormatStats.
func (f *simpleFormatter) FormatStats(w io.Writer, table *aggregator.Table) error {
	written := false

	for _, entry := range f.sel.entries(table) {
		for _, ch := range f.sel.channels() {
			stats := entry.Channels[ch]
			if stats.Count == 0 {
				continue
			}

			_, err := fmt.Fprintf(w, "%s %s %s max=%s avg=%s min=%s n=%d\n",
				entry.Key.Device,
				period(entry.Key.Year, entry.Key.Month),
				ch,
				formatFloat(stats.Max, 2),
				formatFloat(stats.Avg(), 2),
				formatFloat(stats.Min, 2),
				stats.Count)
			if err != nil {
				return err
			}
			written = true
		}
	}

	if !written {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}
	return nil
}

// FormatSummary implements Formatter.FormatSummary.
func (f *simpleFormatter) FormatSummary(w io.Writer, summary reader.Summary) error {
	_, err := fmt.Fprintf(w, "Lines: %s\nKept: %s\nFiltered: %s\nMalformed: %s\n",
		formatNumber(summary.Lines),
		formatNumber(summary.Kept),
		formatNumber(summary.Filtered),
		formatNumber(summary.Malformed))
	return err
}

// FormatRuns implements Formatter.FormatRuns.
func (f *simpleFormatter) FormatRuns(w io.Writer, runs []*history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	for _, run := range runs {
		_, err := fmt.Fprintf(w, "%s %s %s kept=%d entries=%d rows=%d %s %s\n",
			run.ShortID(),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.InputPath,
			run.Kept,
			run.Entries,
			run.Rows,
			run.Duration().Round(time.Millisecond),
			run.Status)
		if err != nil {
			return err
		}
	}
	return nil
}
