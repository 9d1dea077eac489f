package display

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/parser"
)

// ErrUnknownFormat is returned for format names New does not recognize.
var ErrUnknownFormat = errors.New("unknown output format")

// defaultGraphHeight is the plot height when none is configured.
const defaultGraphHeight = 10

// New creates a new formatter based on configuration.
//
// Parameters:
//   - cfg: Formatter configuration
//
// Returns error if the format name or the channel filter is invalid.
func New(cfg Config) (Formatter, error) {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}
	if cfg.GraphHeight <= 0 {
		cfg.GraphHeight = defaultGraphHeight
	}

	sel, err := newSelection(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Format {
	case FormatTable:
		return &tableFormatter{config: cfg, sel: sel}, nil
	case FormatJSON:
		return &jsonFormatter{config: cfg, sel: sel}, nil
	case FormatSimple:
		return &simpleFormatter{config: cfg, sel: sel}, nil
	case FormatGraph:
		return &graphFormatter{
			config: cfg,
			sel:    sel,
			text:   simpleFormatter{config: cfg, sel: sel},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
}

// selection applies the configured device and channel filters.
type selection struct {
	device      string
	channel     parser.Channel
	allChannels bool
}

// newSelection validates the filters in cfg.
func newSelection(cfg Config) (selection, error) {
	sel := selection{device: cfg.Device, allChannels: true}

	if cfg.Channel != "" {
		ch, err := parser.ParseChannel(cfg.Channel)
		if err != nil {
			return selection{}, fmt.Errorf("%w: %q", err, cfg.Channel)
		}
		sel.channel = ch
		sel.allChannels = false
	}

	return sel, nil
}

// entries returns the table entries matching the device filter.
func (s selection) entries(table *aggregator.Table) []*aggregator.Entry {
	all := table.Entries()
	if s.device == "" {
		return all
	}

	matched := make([]*aggregator.Entry, 0, len(all))
	for _, e := range all {
		if e.Key.Device == s.device {
			matched = append(matched, e)
		}
	}
	return matched
}

// channels returns the channels matching the channel filter, in column order.
func (s selection) channels() []parser.Channel {
	if !s.allChannels {
		return []parser.Channel{s.channel}
	}

	chs := make([]parser.Channel, parser.NumChannels)
	for i := range chs {
		chs[i] = parser.Channel(i)
	}
	return chs
}

// period renders a (year, month) pair as YYYY-MM.
func period(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// formatNumber formats a number with thousand separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	result := ""
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}

// formatFloat formats a float with specified precision.
func formatFloat(f float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, f)
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, compact bool) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	separator := ""
	for i := 0; i < len(title); i++ {
		separator += "="
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, separator)
	return err
}

// defaultTermWidth is assumed when the output is not a terminal.
const defaultTermWidth = 80

// terminalWidth returns the column count of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
