package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hmaia/sensor-stats/pkg/logger"
)

// target is one watched input: a directory, optionally narrowed to a
// single file inside it.
type target struct {
	dir  string
	file string // empty when every .csv in dir matches
}

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	events chan Event
	errors chan error

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}
	targets  []target

	// Debouncing state.
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// Circuit breaker state.
	failureCount int
	lastFailure  time.Time
}

// New creates a new file system watcher.
//
// Parameters:
//   - cfg: Watcher configuration
//   - log: Logger instance
//
// Returns:
//   - Configured Watcher
//   - Error if the underlying fsnotify watcher cannot be created
func New(cfg Config, log logger.Logger) (Watcher, error) {
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 500 * time.Millisecond
	}
	if cfg.CircuitBreakerThreshold == 0 {
		cfg.CircuitBreakerThreshold = 5
	}
	if log == nil {
		log = logger.Noop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:            fsw,
		logger:         log,
		config:         cfg,
		events:         make(chan Event, 100),
		errors:         make(chan error, 10),
		stopChan:       make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
	}

	log.Debug("file watcher created",
		"debounce_interval", cfg.DebounceInterval)

	return w, nil
}

// Start implements Watcher.Start.
func (w *watcher) Start(ctx context.Context, paths []string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.running = true
	w.mu.Unlock()

	targets := make([]target, 0, len(paths))
	for _, path := range paths {
		expanded := expandHome(path)

		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				w.logger.Warn("watch path does not exist, skipping",
					"path", expanded)
				continue
			}
			w.setStopped()
			return fmt.Errorf("failed to stat path %s: %w", expanded, err)
		}

		if info.IsDir() {
			targets = append(targets, target{dir: filepath.Clean(expanded)})
		} else {
			clean := filepath.Clean(expanded)
			targets = append(targets, target{dir: filepath.Dir(clean), file: clean})
		}
	}

	if len(targets) == 0 {
		w.setStopped()
		return ErrInvalidPath
	}

	// Watch the directories, not the files. A directory watch survives
	// atomic replaces, which swap the inode out from under a file watch.
	watched := make(map[string]bool)
	for _, t := range targets {
		if watched[t.dir] {
			continue
		}
		if err := w.fsw.Add(t.dir); err != nil {
			w.setStopped()
			return fmt.Errorf("failed to watch %s: %w", t.dir, err)
		}
		watched[t.dir] = true
		w.logger.Debug("added watch path", "path", t.dir)
	}

	w.mu.Lock()
	w.targets = targets
	w.mu.Unlock()

	w.logger.Info("watcher started",
		"targets", len(targets),
		"directories", len(watched))

	go w.processEvents(ctx)

	return nil
}

// setStopped reverts the running flag after a failed start.
func (w *watcher) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stop implements Watcher.Stop.
func (w *watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.running {
		return ErrNotStarted
	}

	close(w.stopChan)
	w.running = false

	w.logger.Info("watcher stopped")
	return nil
}

// Events implements Watcher.Events.
func (w *watcher) Events() <-chan Event {
	return w.events
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close implements Watcher.Close.
func (w *watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.running {
		close(w.stopChan)
		w.running = false
	}

	close(w.events)
	close(w.errors)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = nil
	w.debounceMu.Unlock()

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Info("watcher closed")
	return nil
}

// processEvents handles events from fsnotify.
func (w *watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("event processing stopped", "reason", "context cancelled")
			return

		case <-w.stopChan:
			w.logger.Info("event processing stopped", "reason", "stop signal")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.logger.Warn("fsnotify events channel closed")
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.logger.Warn("fsnotify errors channel closed")
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent processes a single fsnotify event with debouncing.
func (w *watcher) handleEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}

	var op Op
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = OpCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = OpWrite
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		op = OpRemove
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		op = OpRename
	case event.Op&fsnotify.Chmod == fsnotify.Chmod:
		op = OpChmod
	default:
		w.logger.Debug("unknown fsnotify operation",
			"op", event.Op,
			"path", event.Name)
		return
	}

	w.debounceEvent(Event{
		Path:      event.Name,
		Op:        op,
		Timestamp: time.Now(),
	})
}

// matches reports whether a changed path belongs to a watched target.
func (w *watcher) matches(name string) bool {
	clean := filepath.Clean(name)

	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, t := range w.targets {
		if t.file != "" {
			if clean == t.file {
				return true
			}
			continue
		}
		if filepath.Dir(clean) == t.dir && strings.EqualFold(filepath.Ext(clean), ".csv") {
			return true
		}
	}
	return false
}

// debounceEvent coalesces rapid events per path.
func (w *watcher) debounceEvent(event Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[event.Path]; exists {
		timer.Stop()
	}

	w.debounceTimers[event.Path] = time.AfterFunc(w.config.DebounceInterval, func() {
		// Holding the read lock keeps Close from closing the channel
		// between the check and the send.
		w.mu.RLock()
		if !w.closed {
			select {
			case w.events <- event:
			default:
				w.logger.Warn("event channel full, dropping event",
					"path", event.Path)
			}
		}
		w.mu.RUnlock()

		w.debounceMu.Lock()
		if w.debounceTimers != nil {
			delete(w.debounceTimers, event.Path)
		}
		w.debounceMu.Unlock()
	})
}

// handleError processes fsnotify errors with a circuit breaker.
func (w *watcher) handleError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.failureCount++
	w.lastFailure = time.Now()

	w.logger.Error("fsnotify error",
		"error", err,
		"failure_count", w.failureCount)

	toSend := err
	if w.failureCount >= w.config.CircuitBreakerThreshold {
		w.logger.Error("circuit breaker opened",
			"threshold", w.config.CircuitBreakerThreshold)
		toSend = ErrCircuitBreakerOpen
	}

	select {
	case w.errors <- toSend:
	default:
		w.logger.Warn("error channel full, dropping error")
	}
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
