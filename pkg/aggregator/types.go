// Package aggregator provides the concurrent monthly statistics engine.
//
// It partitions an in-memory record set across workers, folds every
// record into per-(device, year, month) running statistics, and merges the
// per-worker partial tables into one finalized table after all workers
// join. Each worker owns a private table, so folding needs no locks and
// the merged result is independent of scheduling.
//
// Example usage:
//
//	eng := aggregator.New(aggregator.Config{Workers: 4}, logger.Default())
//
//	table, err := eng.Run(ctx, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, entry := range table.Entries() {
//	    temp := entry.Channels[parser.ChannelTemperature]
//	    fmt.Printf("%s %04d-%02d avg=%.2f\n", entry.Key.Device, entry.Key.Year, entry.Key.Month, temp.Avg())
//	}
package aggregator

import (
	"context"
	"math"

	"github.com/hmaia/sensor-stats/pkg/parser"
)

// Key identifies one statistics entry: readings are grouped per device
// and calendar month.
type Key struct {
	Device string
	Year   int
	Month  int
}

// ChannelStats holds the running statistics of one sensor channel
// within one entry.
//
// Max starts at -Inf and Min at +Inf; a slot with Count == 0 still
// carries those sentinels and must never be reported.
//
// Invariant: for Count > 0, Min <= Sum/Count <= Max.
type ChannelStats struct {
	Max   float64
	Min   float64
	Sum   float64
	Count int
}

// newChannelStats returns a zero-sample slot with sentinel bounds.
func newChannelStats() ChannelStats {
	return ChannelStats{
		Max: math.Inf(-1),
		Min: math.Inf(1),
	}
}

// Avg returns the running average, or 0 when the slot has no samples.
func (s ChannelStats) Avg() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// fold incorporates one reading into the slot.
func (s *ChannelStats) fold(v float64) {
	if v > s.Max {
		s.Max = v
	}
	if v < s.Min {
		s.Min = v
	}
	s.Sum += v
	s.Count++
}

// merge combines another slot into this one: max-of-maxes,
// min-of-mins, summed sums and counts.
func (s *ChannelStats) merge(o ChannelStats) {
	if o.Max > s.Max {
		s.Max = o.Max
	}
	if o.Min < s.Min {
		s.Min = o.Min
	}
	s.Sum += o.Sum
	s.Count += o.Count
}

// Entry is one row of aggregated statistics: a key plus one slot per
// channel.
//
// Lifecycle: created on the first record observed for its key, mutated
// by every later matching record, never deleted, and read-only once the
// engine returns.
type Entry struct {
	Key      Key
	Channels [parser.NumChannels]ChannelStats
}

// newEntry returns an entry with all channel slots at their sentinels.
func newEntry(key Key) *Entry {
	e := &Entry{Key: key}
	for c := range e.Channels {
		e.Channels[c] = newChannelStats()
	}
	return e
}

// Fold incorporates one record's six values into the entry.
//
// The caller is responsible for key affinity: the record must belong to
// this entry's (device, year, month).
func (e *Entry) Fold(rec *parser.Record) {
	for c := 0; c < parser.NumChannels; c++ {
		e.Channels[c].fold(rec.Values[c])
	}
}

// merge combines another entry with the same key into this one.
func (e *Entry) merge(o *Entry) {
	for c := range e.Channels {
		e.Channels[c].merge(o.Channels[c])
	}
}

// Engine aggregates record sets into finalized statistics tables.
type Engine interface {
	// Run aggregates records into a finalized table.
	//
	// Parameters:
	//   - ctx: Context for cancellation; workers poll it between records
	//   - records: The pre-loaded, read-only record set
	//
	// Returns:
	//   - The finalized table; empty (never nil) when records is empty
	//   - ctx.Err() if the run was cancelled
	//
	// The table's key set and numeric aggregates are independent of the
	// worker count; entry order is deterministic for a fixed
	// (input, worker count) pair.
	Run(ctx context.Context, records []parser.Record) (*Table, error)
}

// Config contains engine configuration.
type Config struct {
	// Workers is the desired worker count.
	//
	// Default (0): runtime.NumCPU(). Always clamped to the record count
	// so no worker receives an empty block.
	Workers int
}
