package aggregator

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/hmaia/sensor-stats/pkg/logger"
	"github.com/hmaia/sensor-stats/pkg/parser"
)

// cancelStride is how many records a worker folds between context
// polls.
const cancelStride = 1024

// engine implements the Engine interface.
type engine struct {
	config Config
	logger logger.Logger
}

// New creates a new aggregation engine.
//
// Parameters:
//   - cfg: Engine configuration
//   - log: Logger instance (nil falls back to a no-op logger)
//
// Returns a configured Engine.
func New(cfg Config, log logger.Logger) Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if log == nil {
		log = logger.Noop()
	}

	return &engine{
		config: cfg,
		logger: log,
	}
}

// Run implements Engine.Run.
//
// Each worker folds its block into a private table; after the join the
// partial tables are merged in worker-index order, which keeps the
// final entry order deterministic for a fixed (input, worker count).
func (e *engine) Run(ctx context.Context, records []parser.Record) (*Table, error) {
	if len(records) == 0 {
		e.logger.Debug("no records to aggregate")
		return NewTable(), nil
	}

	workers := min(e.config.Workers, len(records))
	ranges := Partition(len(records), workers)
	start := time.Now()

	e.logger.Debug("starting aggregation",
		"records", len(records),
		"workers", len(ranges))

	partials := make([]*Table, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r Range) {
			defer wg.Done()
			partials[i] = foldRange(ctx, records, r)
		}(i, r)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		e.logger.Warn("aggregation cancelled", "error", err)
		return nil, err
	}

	table := NewTable()
	for _, p := range partials {
		table.Merge(p)
	}

	e.logger.Info("aggregation complete",
		"records", len(records),
		"workers", len(ranges),
		"entries", table.Len(),
		"duration", time.Since(start))

	return table, nil
}

// foldRange folds one block of records into a fresh private table.
//
// Returns nil if the context was cancelled mid-block; Run translates
// that into ctx.Err() after the join.
func foldRange(ctx context.Context, records []parser.Record, r Range) *Table {
	t := NewTable()

	for i := r.Start; i < r.End; i++ {
		if (i-r.Start)%cancelStride == 0 && ctx.Err() != nil {
			return nil
		}

		rec := &records[i]
		entry := t.LookupOrCreate(Key{
			Device: rec.Device,
			Year:   rec.Year,
			Month:  rec.Month,
		})
		entry.Fold(rec)
	}

	return t
}
