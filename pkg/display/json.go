package display

import (
	"encoding/json"
	"io"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/history"
	"github.com/hmaia/sensor-stats/pkg/reader"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
	sel    selection
}

// statsView is the JSON shape of an aggregation table.
type statsView struct {
	Entries []entryView `json:"entries"`
}

// entryView is one (device, month) group.
type entryView struct {
	Device   string        `json:"device"`
	Period   string        `json:"period"`
	Channels []channelView `json:"channels"`
}

// channelView is one channel's statistics.
type channelView struct {
	Sensor string  `json:"sensor"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Count  int     `json:"count"`
}

// summaryView is the JSON shape of a load summary.
type summaryView struct {
	Lines     int `json:"lines"`
	Kept      int `json:"kept"`
	Filtered  int `json:"filtered"`
	Malformed int `json:"malformed"`
}

// FormatStats implements Formatter.FormatStats.
func (f *jsonFormatter) FormatStats(w io.Writer, table *aggregator.Table) error {
	view := statsView{Entries: make([]entryView, 0, table.Len())}

	for _, entry := range f.sel.entries(table) {
		ev := entryView{
			Device:   entry.Key.Device,
			Period:   period(entry.Key.Year, entry.Key.Month),
			Channels: make([]channelView, 0, len(f.sel.channels())),
		}

		for _, ch := range f.sel.channels() {
			stats := entry.Channels[ch]
			if stats.Count == 0 {
				continue
			}
			ev.Channels = append(ev.Channels, channelView{
				Sensor: ch.String(),
				Max:    stats.Max,
				Avg:    stats.Avg(),
				Min:    stats.Min,
				Count:  stats.Count,
			})
		}

		if len(ev.Channels) > 0 {
			view.Entries = append(view.Entries, ev)
		}
	}

	return f.encode(w, view)
}

// FormatSummary implements Formatter.FormatSummary.
func (f *jsonFormatter) FormatSummary(w io.Writer, summary reader.Summary) error {
	return f.encode(w, summaryView{
		Lines:     summary.Lines,
		Kept:      summary.Kept,
		Filtered:  summary.Filtered,
		Malformed: summary.Malformed,
	})
}

// FormatRuns implements Formatter.FormatRuns.
func (f *jsonFormatter) FormatRuns(w io.Writer, runs []*history.Run) error {
	if runs == nil {
		runs = []*history.Run{}
	}
	return f.encode(w, runs)
}

// encode writes v as JSON, indented unless compact mode is on.
func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
