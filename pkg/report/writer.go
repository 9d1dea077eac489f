package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/logger"
	"github.com/hmaia/sensor-stats/pkg/parser"
)

// writer implements the Writer interface.
type writer struct {
	logger logger.Logger
}

// New creates a new report Writer.
func New(log logger.Logger) Writer {
	if log == nil {
		log = logger.Noop()
	}
	return &writer{logger: log}
}

// Write implements Writer.Write.
//
// Entries appear in table order and channels in their fixed order, so the
// same table always renders the same bytes.
func (w *writer) Write(out io.Writer, table *aggregator.Table) (int, error) {
	if table == nil {
		return 0, ErrNilTable
	}

	buf := bufio.NewWriter(out)

	if _, err := buf.WriteString(Header + "\n"); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for _, entry := range table.Entries() {
		for c := 0; c < parser.NumChannels; c++ {
			stats := entry.Channels[c]
			if stats.Count == 0 {
				continue
			}

			_, err := fmt.Fprintf(buf, rowFormat,
				entry.Key.Device,
				entry.Key.Year,
				entry.Key.Month,
				parser.Channel(c),
				stats.Max,
				stats.Avg(),
				stats.Min)
			if err != nil {
				return rows, fmt.Errorf("failed to write row: %w", err)
			}
			rows++
		}
	}

	if err := buf.Flush(); err != nil {
		return rows, fmt.Errorf("failed to flush output: %w", err)
	}

	return rows, nil
}

// WriteFile implements Writer.WriteFile.
func (w *writer) WriteFile(path string, table *aggregator.Table) (int, error) {
	if table == nil {
		return 0, ErrNilTable
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrOutputUnavailable, path, err)
	}

	rows, err := w.Write(file, table)
	if err != nil {
		file.Close()
		return rows, err
	}

	if err := file.Close(); err != nil {
		return rows, fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.logger.Info("report written",
		"path", path,
		"entries", table.Len(),
		"rows", rows)

	return rows, nil
}
