package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/config"
	"github.com/hmaia/sensor-stats/pkg/discovery"
	"github.com/hmaia/sensor-stats/pkg/display"
	"github.com/hmaia/sensor-stats/pkg/history"
	"github.com/hmaia/sensor-stats/pkg/logger"
	"github.com/hmaia/sensor-stats/pkg/monitor"
	"github.com/hmaia/sensor-stats/pkg/reader"
	"github.com/hmaia/sensor-stats/pkg/report"
	"github.com/hmaia/sensor-stats/pkg/watcher"
)

// loadConfig loads configuration, honoring an explicit -config path.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger from the logging section of the config.
func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})
}

// resolveWorkers returns the worker count a run will request.
func resolveWorkers(cfg *config.Config) int {
	if cfg.Engine.Workers > 0 {
		return cfg.Engine.Workers
	}
	return runtime.NumCPU()
}

// runPipeline resolves the inputs, loads the surviving records, and
// aggregates them into a finalized table.
func runPipeline(ctx context.Context, cfg *config.Config, cutoff reader.Cutoff, log logger.Logger) (*aggregator.Table, reader.Summary, error) {
	files, err := discovery.New(log).Resolve(cfg.Input.Path)
	if err != nil {
		return nil, reader.Summary{}, fmt.Errorf("failed to resolve input: %w", err)
	}

	loader := reader.New(reader.Config{
		Cutoff:      cutoff,
		MaxLineSize: cfg.Input.MaxLineSize,
	}, log)

	records, summary, err := loader.LoadAll(ctx, discovery.Paths(files))
	if err != nil {
		return nil, summary, fmt.Errorf("failed to load input: %w", err)
	}

	engine := aggregator.New(aggregator.Config{
		Workers: cfg.Engine.Workers,
	}, log)

	table, err := engine.Run(ctx, records)
	if err != nil {
		return nil, summary, fmt.Errorf("aggregation failed: %w", err)
	}

	return table, summary, nil
}

// appendHistory records the run outcome in the history ledger. Recording
// is best effort: a broken ledger must not fail the batch itself.
func appendHistory(cfg *config.Config, log logger.Logger, run *history.Run) {
	if !cfg.History.Enabled {
		return
	}

	store, err := history.New(history.Config{
		DBPath: cfg.History.DBPath,
	}, log)
	if err != nil {
		log.Warn("history store unavailable, run not recorded", "error", err)
		return
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("failed to close history store", "error", closeErr)
		}
	}()

	if err := store.Append(run); err != nil {
		log.Warn("failed to record run", "error", err, "run", run.ID)
	}
}

// reportCommand runs the one-shot batch: read, aggregate, write the report.
type reportCommand struct {
	input      string
	output     string
	workers    int
	configPath string
}

// Execute runs the report command.
func (c *reportCommand) Execute() error {
	cfg, err := c.loadRunConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	cutoff, err := reader.ParseCutoff(cfg.Input.CutoffMonth)
	if err != nil {
		return fmt.Errorf("invalid cutoff month: %w", err)
	}

	run := &history.Run{
		StartedAt: time.Now(),
		InputPath: cfg.Input.Path,
		Workers:   resolveWorkers(cfg),
	}

	err = c.runBatch(context.Background(), cfg, cutoff, log, run)

	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = history.StatusError
		run.Error = err.Error()
	}
	appendHistory(cfg, log, run)

	return err
}

// loadRunConfig loads configuration and applies the flag overrides.
func (c *reportCommand) loadRunConfig() (*config.Config, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}

	if c.input != "" {
		cfg.Input.Path = c.input
	}
	if c.output != "" {
		cfg.Output.Path = c.output
	}
	if c.workers > 0 {
		cfg.Engine.Workers = c.workers
	}

	return cfg, nil
}

// runBatch executes one read-aggregate-write pass, filling the run record
// as it goes.
func (c *reportCommand) runBatch(ctx context.Context, cfg *config.Config, cutoff reader.Cutoff, log logger.Logger, run *history.Run) error {
	table, summary, err := runPipeline(ctx, cfg, cutoff, log)
	if err != nil {
		return err
	}

	run.Lines = summary.Lines
	run.Kept = summary.Kept
	run.Filtered = summary.Filtered
	run.Malformed = summary.Malformed

	// An empty result is a clean outcome: the notice replaces the report
	// and no output file is written.
	if table.Len() == 0 {
		fmt.Printf("No records found after %s.\n", cutoff.MonthName())
		run.Status = history.StatusEmpty
		return nil
	}
	run.Entries = table.Len()

	rows, err := report.New(log).WriteFile(cfg.Output.Path, table)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	run.OutputPath = cfg.Output.Path
	run.Rows = rows
	run.Status = history.StatusOK

	log.Info("batch complete",
		"input", cfg.Input.Path,
		"kept", summary.Kept,
		"entries", table.Len(),
		"rows", rows)

	fmt.Printf("Results written to %s\n", cfg.Output.Path)
	return nil
}

// statsCommand aggregates and renders statistics to stdout.
type statsCommand struct {
	input      string
	workers    int
	format     string
	device     string
	channel    string
	compact    bool
	configPath string
}

// Execute runs the stats command.
func (c *statsCommand) Execute() error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}

	if c.input != "" {
		cfg.Input.Path = c.input
	}
	if c.workers > 0 {
		cfg.Engine.Workers = c.workers
	}

	format := display.Format(cfg.Display.Format)
	if c.format != "" {
		format = display.Format(c.format)
	}

	formatter, err := display.New(display.Config{
		Format:      format,
		Device:      c.device,
		Channel:     c.channel,
		Compact:     cfg.Display.Compact || c.compact,
		GraphHeight: cfg.Display.GraphHeight,
	})
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	cutoff, err := reader.ParseCutoff(cfg.Input.CutoffMonth)
	if err != nil {
		return fmt.Errorf("invalid cutoff month: %w", err)
	}

	table, summary, err := runPipeline(context.Background(), cfg, cutoff, log)
	if err != nil {
		return err
	}

	if table.Len() == 0 {
		fmt.Printf("No records found after %s.\n", cutoff.MonthName())
		return nil
	}

	if err := formatter.FormatStats(os.Stdout, table); err != nil {
		return fmt.Errorf("failed to format statistics: %w", err)
	}

	// The ingest footer would break single-document JSON output.
	if format == display.FormatJSON {
		return nil
	}

	fmt.Println()
	return formatter.FormatSummary(os.Stdout, summary)
}

// watchCommand re-runs the batch whenever the input changes.
type watchCommand struct {
	input      string
	output     string
	format     string
	debounce   time.Duration
	noWrite    bool
	configPath string
}

// Execute runs the watch command.
func (c *watchCommand) Execute() error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}

	if c.input != "" {
		cfg.Input.Path = c.input
	}
	if c.output != "" {
		cfg.Output.Path = c.output
	}
	if c.debounce > 0 {
		cfg.Watch.Debounce = c.debounce
	}

	format := display.Format(cfg.Display.Format)
	if c.format != "" {
		format = display.Format(c.format)
	}

	formatter, err := display.New(display.Config{
		Format:      format,
		Compact:     cfg.Display.Compact,
		GraphHeight: cfg.Display.GraphHeight,
	})
	if err != nil {
		return err
	}

	// Quiet logger: rendered updates are the interface during watch.
	log := logger.New(logger.Config{
		Level:  "error",
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})

	cutoff, err := reader.ParseCutoff(cfg.Input.CutoffMonth)
	if err != nil {
		return fmt.Errorf("invalid cutoff month: %w", err)
	}

	w, err := watcher.New(watcher.Config{
		DebounceInterval: cfg.Watch.Debounce,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Error("failed to close watcher", "error", closeErr)
		}
	}()

	loader := reader.New(reader.Config{
		Cutoff:      cutoff,
		MaxLineSize: cfg.Input.MaxLineSize,
	}, log)

	engine := aggregator.New(aggregator.Config{
		Workers: cfg.Engine.Workers,
	}, log)

	mon, err := monitor.New(monitor.Config{
		InputPath: cfg.Input.Path,
	}, w, discovery.New(log), loader, engine, log)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer func() {
		if closeErr := mon.Close(); closeErr != nil {
			log.Error("failed to close monitor", "error", closeErr)
		}
	}()

	// Setup signal handling.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	rep := report.New(log)

	fmt.Printf("Watching %s (debounce %s) - press Ctrl+C to stop\n\n",
		cfg.Input.Path, cfg.Watch.Debounce)

	// Process updates until interrupted.
	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopping watch...")
			if err := mon.Stop(); err != nil {
				log.Error("failed to stop monitor", "error", err)
			}
			return nil

		case update, ok := <-mon.Updates():
			if !ok {
				return nil
			}
			c.renderUpdate(cfg, cutoff, formatter, rep, update)
		}
	}
}

// renderUpdate prints the outcome of one watch pass and rewrites the
// report file unless -no-write is set.
func (c *watchCommand) renderUpdate(cfg *config.Config, cutoff reader.Cutoff, formatter display.Formatter, rep report.Writer, update monitor.Update) {
	stamp := update.Timestamp.Format("15:04:05")

	if update.Err != nil {
		fmt.Fprintf(os.Stderr, "[%s] refresh failed: %v\n", stamp, update.Err)
		return
	}

	fmt.Printf("[%s] %s pass: %d entries from %d records in %s\n",
		stamp,
		update.Trigger,
		update.Table.Len(),
		update.Summary.Kept,
		update.Duration.Round(time.Millisecond))

	if update.Table.Len() == 0 {
		fmt.Printf("No records found after %s.\n\n", cutoff.MonthName())
		return
	}

	if err := formatter.FormatStats(os.Stdout, update.Table); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] render failed: %v\n", stamp, err)
		return
	}

	if c.noWrite {
		fmt.Println()
		return
	}

	rows, err := rep.WriteFile(cfg.Output.Path, update.Table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] report write failed: %v\n", stamp, err)
		return
	}
	fmt.Printf("Results written to %s (%d rows)\n\n", cfg.Output.Path, rows)
}
