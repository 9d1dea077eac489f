package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hmaia/sensor-stats/pkg/aggregator"
	"github.com/hmaia/sensor-stats/pkg/discovery"
	"github.com/hmaia/sensor-stats/pkg/logger"
	"github.com/hmaia/sensor-stats/pkg/reader"
	"github.com/hmaia/sensor-stats/pkg/watcher"
)

// fileMonitor implements the Monitor interface.
type fileMonitor struct {
	config    Config
	logger    logger.Logger
	watcher   watcher.Watcher
	discovery discovery.Discoverer
	loader    reader.Loader
	engine    aggregator.Engine

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}

	// Latest finalized table, replaced wholesale by each successful pass
	table *aggregator.Table

	// Update channel for consumers
	updates chan Update
}

// New creates a new file monitor.
//
// Parameters:
//   - cfg: Monitor configuration
//   - w: File watcher
//   - disc: Input path resolution
//   - l: Record loader
//   - e: Aggregation engine
//   - log: Logger instance (nil falls back to a no-op logger)
//
// Returns:
//   - Configured Monitor
//   - Error if the configuration or a dependency is invalid
func New(cfg Config, w watcher.Watcher, disc discovery.Discoverer, l reader.Loader, e aggregator.Engine, log logger.Logger) (Monitor, error) {
	if cfg.InputPath == "" {
		return nil, fmt.Errorf("%w: input path is required", ErrInvalidConfig)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: watcher", ErrNilDependency)
	}
	if disc == nil {
		return nil, fmt.Errorf("%w: discoverer", ErrNilDependency)
	}
	if l == nil {
		return nil, fmt.Errorf("%w: loader", ErrNilDependency)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: engine", ErrNilDependency)
	}
	if log == nil {
		log = logger.Noop()
	}

	m := &fileMonitor{
		config:    cfg,
		logger:    log,
		watcher:   w,
		discovery: disc,
		loader:    l,
		engine:    e,
		stopChan:  make(chan struct{}),
		updates:   make(chan Update, 10),
	}

	log.Info("monitor created", "path", cfg.InputPath)

	return m, nil
}

// Start implements Monitor.Start.
//
// The baseline pass runs synchronously, so its update is already
// buffered when Start returns. A failed baseline does not abort the
// start: the failure is delivered as an Update and the watch stays
// armed, so the monitor recovers as soon as the inputs do.
func (m *fileMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if m.running {
		m.mu.Unlock()
		return ErrMonitorRunning
	}
	m.running = true
	m.mu.Unlock()

	m.refresh(ctx, TriggerInitial)

	if err := m.watcher.Start(ctx, []string{m.config.InputPath}); err != nil {
		m.setStopped()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	go m.processEvents(ctx)

	m.logger.Info("monitor started", "path", m.config.InputPath)
	return nil
}

// setStopped reverts the running flag after a failed start.
func (m *fileMonitor) setStopped() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// Stop implements Monitor.Stop.
func (m *fileMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMonitorClosed
	}
	if !m.running {
		return ErrMonitorNotRunning
	}

	close(m.stopChan)
	m.running = false

	if err := m.watcher.Stop(); err != nil {
		m.logger.Warn("failed to stop watcher", "error", err)
	}

	m.logger.Info("monitor stopped")
	return nil
}

// Updates implements Monitor.Updates.
func (m *fileMonitor) Updates() <-chan Update {
	return m.updates
}

// Table implements Monitor.Table.
func (m *fileMonitor) Table() *aggregator.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.table
}

// refresh runs one full pipeline pass and delivers its outcome.
func (m *fileMonitor) refresh(ctx context.Context, trigger string) {
	m.deliver(m.runOnce(ctx, trigger))
}

// runOnce resolves, loads, and aggregates the inputs once.
//
// The pipeline is re-run from scratch on every pass. Re-reading the
// whole input keeps truncated and rewritten files correct, which an
// incremental tail cannot.
func (m *fileMonitor) runOnce(ctx context.Context, trigger string) (update Update) {
	start := time.Now()
	update = Update{Timestamp: start, Trigger: trigger}
	defer func() { update.Duration = time.Since(start) }()

	files, err := m.discovery.Resolve(m.config.InputPath)
	if err != nil {
		m.logger.Warn("input resolution failed",
			"path", m.config.InputPath,
			"error", err)
		update.Err = fmt.Errorf("failed to resolve inputs: %w", err)
		return update
	}

	records, summary, err := m.loader.LoadAll(ctx, discovery.Paths(files))
	if err != nil {
		m.logger.Warn("input load failed",
			"path", m.config.InputPath,
			"error", err)
		update.Err = fmt.Errorf("failed to load inputs: %w", err)
		return update
	}
	update.Summary = summary

	table, err := m.engine.Run(ctx, records)
	if err != nil {
		m.logger.Warn("aggregation failed", "error", err)
		update.Err = fmt.Errorf("aggregation failed: %w", err)
		return update
	}
	update.Table = table

	m.mu.Lock()
	m.table = table
	m.mu.Unlock()

	m.logger.Debug("pass complete",
		"trigger", trigger,
		"records", summary.Kept,
		"entries", table.Len(),
		"duration", update.Duration)

	return update
}

// processEvents handles change events from the watcher.
func (m *fileMonitor) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-m.stopChan:
			return

		case event, ok := <-m.watcher.Events():
			if !ok {
				m.logger.Info("watcher events channel closed")
				return
			}

			m.handleChange(ctx, event)

		case err, ok := <-m.watcher.Errors():
			if !ok {
				m.logger.Info("watcher errors channel closed")
				return
			}

			m.logger.Error("watcher error", "error", err)
			m.deliver(Update{
				Timestamp: time.Now(),
				Trigger:   TriggerWatch,
				Err:       err,
			})
		}
	}
}

// handleChange re-runs the pipeline after an input change.
func (m *fileMonitor) handleChange(ctx context.Context, event watcher.Event) {
	m.logger.Debug("input change detected",
		"path", event.Path,
		"op", event.Op)

	m.refresh(ctx, TriggerChange)
}

// deliver sends an update to the consumers (non-blocking).
func (m *fileMonitor) deliver(update Update) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}

	select {
	case m.updates <- update:
	default:
		m.logger.Warn("updates channel full, dropping update",
			"trigger", update.Trigger)
	}
}

// Close closes the monitor and releases resources.
func (m *fileMonitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.running {
		close(m.stopChan)
		m.running = false

		if err := m.watcher.Stop(); err != nil {
			m.logger.Warn("failed to stop watcher", "error", err)
		}
	}

	close(m.updates)

	m.logger.Info("monitor closed")
	return nil
}
