// Package report renders aggregated statistics in the semicolon-delimited
// output format.
//
// Each row carries device, year-month, channel name, and the maximum,
// average and minimum values rounded to two decimals. Channels that never
// received a reading for a given (device, month) are omitted.
//
// Example usage:
//
//	w := report.New(logger.Default())
//	rows, err := w.WriteFile("sensor_stats.csv", table)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Results written to sensor_stats.csv (%d rows)\n", rows)
package report

import (
	"io"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
)

// Header is the first line of every report.
const Header = "device;ano-mes;sensor;valor_maximo;valor_medio;valor_minimo"

// rowFormat renders one statistics row: device, period, channel,
// then max, average, min.
const rowFormat = "%s;%04d-%02d;%s;%.2f;%.2f;%.2f\n"

// Writer renders aggregation tables.
type Writer interface {
	// Write renders the table to out and returns the number of data rows.
	Write(out io.Writer, table *aggregator.Table) (int, error)

	// WriteFile renders the table to a new file at path, replacing any
	// existing file, and returns the number of data rows.
	WriteFile(path string, table *aggregator.Table) (int, error)
}
