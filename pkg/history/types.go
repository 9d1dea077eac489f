// Package history records aggregation runs in a persistent ledger.
//
// Every batch run appends one entry describing its inputs, outputs and
// counters, so past runs can be listed and compared without re-reading
// the data files.
//
// Example usage:
//
//	store, err := history.New(history.Config{
//	    DBPath: "~/.local/share/sensor-stats/history.db",
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	run := &history.Run{
//	    InputPath:  "devices.csv",
//	    OutputPath: "sensor_stats.csv",
//	    Workers:    8,
//	    Status:     history.StatusOK,
//	}
//	if err := store.Append(run); err != nil {
//	    log.Fatal(err)
//	}
package history

import "time"

// Run status values.
const (
	// StatusOK marks a run that produced a report.
	StatusOK = "ok"

	// StatusEmpty marks a run whose input held no records after filtering.
	StatusEmpty = "empty"

	// StatusError marks a run that failed.
	StatusError = "error"
)

// Run describes one aggregation run.
type Run struct {
	// ID identifies the run (UUID, assigned on append when empty).
	ID string `json:"id"`

	// StartedAt and FinishedAt bound the run in wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// InputPath is the file or directory that was loaded.
	InputPath string `json:"input_path"`

	// OutputPath is the report location, empty when no report was written.
	OutputPath string `json:"output_path,omitempty"`

	// Workers is the number of aggregation workers used.
	Workers int `json:"workers"`

	// Load counters, mirroring the reader summary.
	Lines     int `json:"lines"`
	Kept      int `json:"kept"`
	Filtered  int `json:"filtered"`
	Malformed int `json:"malformed"`

	// Entries is the number of (device, month) groups produced.
	Entries int `json:"entries"`

	// Rows is the number of report rows written.
	Rows int `json:"rows"`

	// Status is one of StatusOK, StatusEmpty, StatusError.
	Status string `json:"status"`

	// Error holds the failure message for StatusError runs.
	Error string `json:"error,omitempty"`
}

// Duration returns the wall-clock duration of the run.
func (r *Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ShortID returns the first UUID group of the run ID, for compact listings.
func (r *Run) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Store provides persistent access to recorded runs.
type Store interface {
	// Append records a run, assigning an ID when the run has none.
	Append(run *Run) error

	// Get retrieves a run by ID.
	//
	// Returns ErrRunNotFound if no run has that ID.
	Get(id string) (*Run, error)

	// List returns recorded runs, newest first.
	//
	// Parameters:
	//   - limit: Maximum number of runs to return; 0 or negative means all.
	List(limit int) ([]*Run, error)

	// Clear removes all recorded runs.
	Clear() error

	// Close closes the database and releases resources.
	Close() error
}

// Config contains history store configuration.
type Config struct {
	// DBPath is the BoltDB file path.
	DBPath string

	// Timeout is the database open timeout (default: 1 second).
	Timeout time.Duration
}
