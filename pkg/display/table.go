package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/history"
	"github.com/hmaia/sensor-stats/pkg/reader"
)

// tableFormatter formats output as aligned tables.
type tableFormatter struct {
	config Config
	sel    selection
}

// FormatStats implements Formatter.FormatStats.
func (f *tableFormatter) FormatStats(w io.Writer, table *aggregator.Table) error {
	if err := writeHeader(w, "Sensor Statistics", f.config.Compact); err != nil {
		return err
	}

	header := []string{"Device", "Period", "Sensor", "Max", "Avg", "Min", "Readings"}

	var rows [][]string
	for _, entry := range f.sel.entries(table) {
		for _, ch := range f.sel.channels() {
			stats := entry.Channels[ch]
			if stats.Count == 0 {
				continue
			}

			rows = append(rows, []string{
				entry.Key.Device,
				period(entry.Key.Year, entry.Key.Month),
				ch.String(),
				formatFloat(stats.Max, 2),
				formatFloat(stats.Avg(), 2),
				formatFloat(stats.Min, 2),
				formatNumber(stats.Count),
			})
		}
	}

	return f.writeTable(w, header, rows)
}

// FormatSummary implements Formatter.FormatSummary.
func (f *tableFormatter) FormatSummary(w io.Writer, summary reader.Summary) error {
	if err := writeHeader(w, "Load Summary", f.config.Compact); err != nil {
		return err
	}

	rows := [][]string{
		{"Lines Read", formatNumber(summary.Lines)},
		{"Records Kept", formatNumber(summary.Kept)},
		{"Dropped by Cutoff", formatNumber(summary.Filtered)},
		{"Malformed Lines", formatNumber(summary.Malformed)},
	}

	return f.writeTable(w, []string{"Metric", "Value"}, rows)
}

// FormatRuns implements Formatter.FormatRuns.
func (f *tableFormatter) FormatRuns(w io.Writer, runs []*history.Run) error {
	if err := writeHeader(w, "Run History", f.config.Compact); err != nil {
		return err
	}

	header := []string{"ID", "Started", "Input", "Kept", "Entries", "Rows", "Duration", "Status"}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			run.ShortID(),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.InputPath,
			formatNumber(run.Kept),
			formatNumber(run.Entries),
			formatNumber(run.Rows),
			run.Duration().Round(time.Millisecond).String(),
			run.Status,
		}
	}

	return f.writeTable(w, header, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}

	// Calculate column widths.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}

	return nil
}

// writeRow writes a single table row.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	for i, cell := range cells {
		if i > 0 {
			if _, err := fmt.Fprint(w, gap); err != nil {
				return err
			}
		}

		format := fmt.Sprintf("%%-%ds", widths[i])
		if _, err := fmt.Fprintf(w, format, cell); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
