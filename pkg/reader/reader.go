package reader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hmaia/sensor-stats/pkg/logger"
	"github.com/hmaia/sensor-stats/pkg/parser"
)

// ctxCheckStride is how many lines are scanned between context checks.
const ctxCheckStride = 4096

// loader implements the Loader interface.
type loader struct {
	parser parser.Parser
	config Config
	logger logger.Logger
}

// New creates a new Loader with the given configuration.
//
// Zero-value fields fall back to defaults: parser.New(), DefaultCutoff,
// DefaultMaxLineSize, DefaultMaxFileSize, DefaultMaxRetries and
// DefaultRetryDelay.
func New(config Config, log logger.Logger) Loader {
	if config.Parser == nil {
		config.Parser = parser.New()
	}
	if config.Cutoff == (Cutoff{}) {
		config.Cutoff = DefaultCutoff
	}
	if config.MaxLineSize <= 0 {
		config.MaxLineSize = DefaultMaxLineSize
	}
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if log == nil {
		log = logger.Noop()
	}

	return &loader{
		parser: config.Parser,
		config: config,
		logger: log,
	}
}

// Load reads a single file and returns the retained records.
func (l *loader) Load(ctx context.Context, path string) ([]parser.Record, Summary, error) {
	file, err := l.openWithRetry(ctx, path)
	if err != nil {
		return nil, Summary{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > l.config.MaxFileSize {
		return nil, Summary{}, fmt.Errorf("%w: %s is %d bytes (max %d)",
			ErrFileTooLarge, path, info.Size(), l.config.MaxFileSize)
	}

	records, summary, err := l.scan(ctx, file, path)
	if err != nil {
		return nil, summary, err
	}

	l.logger.Info("input loaded",
		"path", path,
		"lines", summary.Lines,
		"kept", summary.Kept,
		"filtered", summary.Filtered,
		"malformed", summary.Malformed)

	return records, summary, nil
}

// LoadAll reads several files in order and concatenates their records.
func (l *loader) LoadAll(ctx context.Context, paths []string) ([]parser.Record, Summary, error) {
	if len(paths) == 0 {
		return nil, Summary{}, ErrNoInputs
	}

	var records []parser.Record
	var total Summary

	for _, path := range paths {
		recs, summary, err := l.Load(ctx, path)
		if err != nil {
			return nil, total, err
		}
		records = append(records, recs...)
		total.add(summary)
	}

	return records, total, nil
}

// openWithRetry opens the input file, retrying transient failures with
// exponential backoff. Missing files and permission errors fail immediately.
func (l *loader) openWithRetry(ctx context.Context, path string) (*os.File, error) {
	var lastErr error

	for attempt := 0; attempt <= l.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<(attempt-1)) * l.config.RetryDelay
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		file, err := os.Open(path)
		if err == nil {
			return file, nil
		}

		lastErr = err

		if !isRetryable(err) {
			break
		}

		l.logger.Debug("retrying input open",
			"path", path,
			"attempt", attempt+1,
			"error", err)
	}

	return nil, fmt.Errorf("%w: %s: %v", ErrInputUnavailable, path, lastErr)
}

// scan reads every line after the header, parses it, and applies the cutoff.
func (l *loader) scan(ctx context.Context, file *os.File, path string) ([]parser.Record, Summary, error) {
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), l.config.MaxLineSize)

	var records []parser.Record
	var summary Summary
	header := true

	for scanner.Scan() {
		// The first line is always the column header.
		if header {
			header = false
			continue
		}

		summary.Lines++

		if summary.Lines%ctxCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, summary, err
			}
		}

		rec, err := l.parser.ParseLine(scanner.Text())
		if err != nil {
			summary.Malformed++
			l.logger.Debug("skipping malformed line",
				"path", path,
				"line", summary.Lines+1,
				"error", err)
			continue
		}

		if !l.config.Cutoff.Keep(rec.Year, rec.Month) {
			summary.Filtered++
			continue
		}

		summary.Kept++
		records = append(records, *rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, summary, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return records, summary, nil
}

// isRetryable reports whether an open error is worth retrying.
func isRetryable(err error) bool {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false
	case errors.Is(err, fs.ErrPermission):
		return false
	default:
		return true
	}
}
