package display

import (
	"fmt"
	"io"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/history"
	"github.com/hmaia/sensor-stats/pkg/reader"
)

// Graph width bounds, in columns.
const (
	minGraphWidth = 32
	maxGraphWidth = 120
	graphMargin   = 12 // room for the y-axis labels
)

// graphFormatter plots monthly averages as ASCII charts, one chart per
// (device, channel) pair.
type graphFormatter struct {
	config Config
	sel    selection
	text   simpleFormatter
}

// FormatStats implements Formatter.FormatStats.
func (f *graphFormatter) FormatStats(w io.Writer, table *aggregator.Table) error {
	devices, byDevice := groupByDevice(f.sel.entries(table))

	width := f.config.GraphWidth
	if width <= 0 {
		width = fitGraphWidth(terminalWidth(w))
	}

	plotted := false
	for _, device := range devices {
		entries := byDevice[device]
		sort.Slice(entries, func(i, j int) bool {
			a, b := entries[i].Key, entries[j].Key
			if a.Year != b.Year {
				return a.Year < b.Year
			}
			return a.Month < b.Month
		})

		for _, ch := range f.sel.channels() {
			var series []float64
			var first, last string

			for _, entry := range entries {
				stats := entry.Channels[ch]
				if stats.Count == 0 {
					continue
				}
				if first == "" {
					first = period(entry.Key.Year, entry.Key.Month)
				}
				last = period(entry.Key.Year, entry.Key.Month)
				series = append(series, stats.Avg())
			}

			if len(series) == 0 {
				continue
			}

			plot := asciigraph.Plot(series,
				asciigraph.Height(f.config.GraphHeight),
				asciigraph.Width(width),
				asciigraph.Caption(fmt.Sprintf("%s / %s (monthly average)", device, ch)))

			_, err := fmt.Fprintf(w, "%s\n\n  %s to %s, %d months\n\n",
				plot, first, last, len(series))
			if err != nil {
				return err
			}
			plotted = true
		}
	}

	if !plotted {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}
	return nil
}

// FormatSummary implements Formatter.FormatSummary.
func (f *graphFormatter) FormatSummary(w io.Writer, summary reader.Summary) error {
	return f.text.FormatSummary(w, summary)
}

// FormatRuns implements Formatter.FormatRuns.
func (f *graphFormatter) FormatRuns(w io.Writer, runs []*history.Run) error {
	return f.text.FormatRuns(w, runs)
}

// groupByDevice splits entries per device, keeping first-seen device order.
func groupByDevice(entries []*aggregator.Entry) ([]string, map[string][]*aggregator.Entry) {
	var devices []string
	byDevice := make(map[string][]*aggregator.Entry)

	for _, entry := range entries {
		device := entry.Key.Device
		if _, seen := byDevice[device]; !seen {
			devices = append(devices, device)
		}
		byDevice[device] = append(byDevice[device], entry)
	}

	return devices, byDevice
}

// fitGraphWidth derives a plot width from the terminal width.
func fitGraphWidth(termWidth int) int {
	width := termWidth - graphMargin
	if width < minGraphWidth {
		return minGraphWidth
	}
	if width > maxGraphWidth {
		return maxGraphWidth
	}
	return width
}
