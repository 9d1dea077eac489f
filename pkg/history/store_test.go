package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setupTestStore creates a store backed by a temp database.
func setupTestStore(t *testing.T) Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := New(Config{DBPath: dbPath}, nil)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Errorf("Cleanup Close() error = %v", closeErr)
		}
	})

	return store
}

// sampleRun builds a completed run for tests.
func sampleRun(input string) *Run {
	started := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	return &Run{
		StartedAt:  started,
		FinishedAt: started.Add(420 * time.Millisecond),
		InputPath:  input,
		OutputPath: "sensor_stats.csv",
		Workers:    8,
		Lines:      1000,
		Kept:       900,
		Filtered:   80,
		Malformed:  20,
		Entries:    42,
		Rows:       250,
		Status:     StatusOK,
	}
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := New(Config{DBPath: dbPath}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := store.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}

	if _, statErr := os.Stat(dbPath); statErr != nil {
		t.Errorf("Database file not created: %v", statErr)
	}
}

func TestNewEmptyPath(t *testing.T) {
	_, err := New(Config{}, nil)
	if !errors.Is(err, ErrEmptyDBPath) {
		t.Errorf("New() error = %v, want ErrEmptyDBPath", err)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := New(Config{DBPath: dbPath}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	if _, statErr := os.Stat(dbPath); statErr != nil {
		t.Errorf("Database file not created: %v", statErr)
	}
}

func TestAppendAndGet(t *testing.T) {
	store := setupTestStore(t)

	run := sampleRun("devices.csv")
	if err := store.Append(run); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if run.ID == "" {
		t.Fatal("Append() did not assign an ID")
	}

	retrieved, err := store.Get(run.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if retrieved.InputPath != run.InputPath {
		t.Errorf("InputPath = %s, want %s", retrieved.InputPath, run.InputPath)
	}
	if retrieved.Kept != run.Kept || retrieved.Malformed != run.Malformed {
		t.Errorf("counters = %d/%d, want %d/%d",
			retrieved.Kept, retrieved.Malformed, run.Kept, run.Malformed)
	}
	if retrieved.Status != StatusOK {
		t.Errorf("Status = %s, want %s", retrieved.Status, StatusOK)
	}
	if !retrieved.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", retrieved.StartedAt, run.StartedAt)
	}
	if retrieved.Duration() != 420*time.Millisecond {
		t.Errorf("Duration() = %v, want 420ms", retrieved.Duration())
	}
}

func TestAppendNil(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Append(nil); !errors.Is(err, ErrNilRun) {
		t.Errorf("Append(nil) error = %v, want ErrNilRun", err)
	}
}

func TestAppendKeepsExplicitID(t *testing.T) {
	store := setupTestStore(t)

	run := sampleRun("devices.csv")
	run.ID = "preassigned-id"
	if err := store.Append(run); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, err := store.Get("preassigned-id"); err != nil {
		t.Errorf("Get(preassigned-id) error = %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get("no-such-run")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get() error = %v, want ErrRunNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 3; i++ {
		run := sampleRun(fmt.Sprintf("input-%d.csv", i))
		if err := store.Append(run); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	runs, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(runs) != 3 {
		t.Fatalf("List() returned %d runs, want 3", len(runs))
	}
	for i, want := range []string{"input-2.csv", "input-1.csv", "input-0.csv"} {
		if runs[i].InputPath != want {
			t.Errorf("runs[%d].InputPath = %s, want %s", i, runs[i].InputPath, want)
		}
	}
}

func TestListLimit(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Append(sampleRun(fmt.Sprintf("input-%d.csv", i))); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	runs, err := store.List(2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("List(2) returned %d runs, want 2", len(runs))
	}
	if runs[0].InputPath != "input-4.csv" {
		t.Errorf("newest run = %s, want input-4.csv", runs[0].InputPath)
	}
}

func TestListEmpty(t *testing.T) {
	store := setupTestStore(t)

	runs, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() returned %d runs, want 0", len(runs))
	}
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	run := sampleRun("devices.csv")
	if err := store.Append(run); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	runs, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() after Clear() returned %d runs, want 0", len(runs))
	}

	if _, err := store.Get(run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get() after Clear() error = %v, want ErrRunNotFound", err)
	}
}

func TestDataPersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store1, err := New(Config{DBPath: dbPath}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	run := sampleRun("devices.csv")
	if appendErr := store1.Append(run); appendErr != nil {
		t.Fatalf("Append() error = %v", appendErr)
	}
	if closeErr := store1.Close(); closeErr != nil {
		t.Fatalf("Close() error = %v", closeErr)
	}

	store2, err := New(Config{DBPath: dbPath}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store2.Close()

	retrieved, err := store2.Get(run.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if retrieved.Rows != run.Rows {
		t.Errorf("Rows = %d, want %d", retrieved.Rows, run.Rows)
	}
}

func TestShortID(t *testing.T) {
	run := &Run{ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890"}
	if got := run.ShortID(); got != "a1b2c3d4" {
		t.Errorf("ShortID() = %s, want a1b2c3d4", got)
	}

	short := &Run{ID: "abc"}
	if got := short.ShortID(); got != "abc" {
		t.Errorf("ShortID() = %s, want abc", got)
	}
}
