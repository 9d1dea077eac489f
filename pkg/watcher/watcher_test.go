package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if w == nil {
		t.Error("New() returned nil watcher")
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}
}

func TestStartAndCancel(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Config{DebounceInterval: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			t.Logf("Close() error = %v", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if startErr := w.Start(ctx, []string{tmpDir}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	// Cancelling the context ends the background loop.
	cancel()
	time.Sleep(50 * time.Millisecond)
}

func TestStartInvalidPath(t *testing.T) {
	nonExistent := filepath.Join(t.TempDir(), "nonexistent")

	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	startErr := w.Start(context.Background(), []string{nonExistent})
	if !errors.Is(startErr, ErrInvalidPath) {
		t.Errorf("Start() error = %v, want ErrInvalidPath", startErr)
	}
}

func TestStartAlreadyStarted(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if startErr := w.Start(ctx, []string{tmpDir}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	startErr := w.Start(ctx, []string{tmpDir})
	if !errors.Is(startErr, ErrAlreadyStarted) {
		t.Errorf("Start() error = %v, want ErrAlreadyStarted", startErr)
	}
}

func TestWatchDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Config{DebounceInterval: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if startErr := w.Start(ctx, []string{tmpDir}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	testFile := filepath.Join(tmpDir, "devices.csv")
	if writeErr := os.WriteFile(testFile, []byte("id|device\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to create test file: %v", writeErr)
	}

	select {
	case event := <-w.Events():
		if event.Path != testFile {
			t.Errorf("Event path = %s, want %s", event.Path, testFile)
		}
		if event.Op != OpCreate && event.Op != OpWrite {
			t.Errorf("Event op = %s, want CREATE or WRITE", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for file create event")
	}
}

func TestWatchSingleFile(t *testing.T) {
	tmpDir := t.TempDir()

	watched := filepath.Join(tmpDir, "devices.csv")
	sibling := filepath.Join(tmpDir, "other.csv")
	for _, path := range []string{watched, sibling} {
		if err := os.WriteFile(path, []byte("initial\n"), 0600); err != nil {
			t.Fatalf("Failed to create %s: %v", path, err)
		}
	}

	w, err := New(Config{DebounceInterval: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if startErr := w.Start(ctx, []string{watched}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	// The sibling changes first; only the watched file should surface.
	if writeErr := os.WriteFile(sibling, []byte("changed\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to modify sibling: %v", writeErr)
	}
	time.Sleep(150 * time.Millisecond)
	if writeErr := os.WriteFile(watched, []byte("changed\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to modify watched file: %v", writeErr)
	}

	select {
	case event := <-w.Events():
		if event.Path != watched {
			t.Errorf("Event path = %s, want %s", event.Path, watched)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for watched file event")
	}
}

func TestNonCSVFilesIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Config{DebounceInterval: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if startErr := w.Start(ctx, []string{tmpDir}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	txtFile := filepath.Join(tmpDir, "notes.txt")
	if writeErr := os.WriteFile(txtFile, []byte("test"), 0600); writeErr != nil {
		t.Fatalf("Failed to create txt file: %v", writeErr)
	}

	select {
	case event := <-w.Events():
		t.Errorf("Received unexpected event for non-CSV file: %v", event)
	case <-time.After(500 * time.Millisecond):
		// Expected - no events.
	}
}

func TestDebouncing(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "devices.csv")
	if err := os.WriteFile(testFile, []byte("initial"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	w, err := New(Config{DebounceInterval: 200 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if startErr := w.Start(ctx, []string{testFile}); startErr != nil {
		t.Fatalf("Start() error = %v", startErr)
	}

	// Rapid writes inside the debounce window.
	for i := 0; i < 5; i++ {
		if writeErr := os.WriteFile(testFile, []byte("content"), 0600); writeErr != nil {
			t.Fatalf("Failed to write test file: %v", writeErr)
		}
		time.Sleep(30 * time.Millisecond)
	}

	eventCount := 0
	timeout := time.After(1 * time.Second)

	for done := false; !done; {
		select {
		case <-w.Events():
			eventCount++
		case <-timeout:
			done = true
		}
	}

	if eventCount == 0 {
		t.Error("No events received, debouncing may be too aggressive")
	}
	if eventCount >= 5 {
		t.Errorf("Received %d events for 5 rapid writes, debouncing not working", eventCount)
	}

	t.Logf("5 rapid writes resulted in %d event(s)", eventCount)
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
		{Op(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.op.String()
		if got != tt.want {
			t.Errorf("Op.String() = %s, want %s", got, tt.want)
		}
	}
}

func TestStopNotStarted(t *testing.T) {
	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if stopErr := w.Stop(); !errors.Is(stopErr, ErrNotStarted) {
		t.Errorf("Stop() error = %v, want ErrNotStarted", stopErr)
	}
}

func TestCloseTwice(t *testing.T) {
	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("First Close() error = %v", closeErr)
	}
	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Second Close() error = %v", closeErr)
	}
}

func TestStartAfterClose(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(Config{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if closeErr := w.Close(); closeErr != nil {
		t.Errorf("Close() error = %v", closeErr)
	}

	startErr := w.Start(context.Background(), []string{tmpDir})
	if !errors.Is(startErr, ErrWatcherClosed) {
		t.Errorf("Start() error = %v, want ErrWatcherClosed", startErr)
	}
}
