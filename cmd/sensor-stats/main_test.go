package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hmaia/sensor-stats/pkg/history"
)

// TestParseReportFlags tests report command flag parsing.
func TestParseReportFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCmd   reportCommand
		wantError bool
	}{
		{
			name: "default flags",
			args: []string{},
			wantCmd: reportCommand{
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "custom input",
			args: []string{"-input", "data/readings.csv"},
			wantCmd: reportCommand{
				input:      "data/readings.csv",
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "custom output",
			args: []string{"-output", "/tmp/report.csv"},
			wantCmd: reportCommand{
				output:     "/tmp/report.csv",
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "worker count",
			args: []string{"-workers", "8"},
			wantCmd: reportCommand{
				workers:    8,
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "combined flags",
			args: []string{"-input", "in.csv", "-output", "out.csv", "-workers", "4"},
			wantCmd: reportCommand{
				input:      "in.csv",
				output:     "out.csv",
				workers:    4,
				configPath: "/test/config.yaml",
			},
		},
		{
			name:      "unknown flag",
			args:      []string{"-bogus"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReportFlags("/test/config.yaml", tt.args)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.input != tt.wantCmd.input {
				t.Errorf("input = %q, want %q", got.input, tt.wantCmd.input)
			}
			if got.output != tt.wantCmd.output {
				t.Errorf("output = %q, want %q", got.output, tt.wantCmd.output)
			}
			if got.workers != tt.wantCmd.workers {
				t.Errorf("workers = %d, want %d", got.workers, tt.wantCmd.workers)
			}
			if got.configPath != tt.wantCmd.configPath {
				t.Errorf("configPath = %q, want %q", got.configPath, tt.wantCmd.configPath)
			}
		})
	}
}

// TestParseStatsFlags tests stats command flag parsing.
func TestParseStatsFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCmd   statsCommand
		wantError bool
	}{
		{
			name: "default flags",
			args: []string{},
			wantCmd: statsCommand{
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "device filter",
			args: []string{"-device", "ag-sala-03"},
			wantCmd: statsCommand{
				device:     "ag-sala-03",
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "channel filter",
			args: []string{"-channel", "temperatura"},
			wantCmd: statsCommand{
				channel:    "temperatura",
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "JSON format",
			args: []string{"-format", "json"},
			wantCmd: statsCommand{
				format:     "json",
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "compact output",
			args: []string{"-compact"},
			wantCmd: statsCommand{
				compact:    true,
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "combined flags",
			args: []string{
				"-input", "in.csv",
				"-workers", "2",
				"-device", "ag-sala-03",
				"-channel", "eco2",
				"-format", "graph",
				"-compact",
			},
			wantCmd: statsCommand{
				input:      "in.csv",
				workers:    2,
				device:     "ag-sala-03",
				channel:    "eco2",
				format:     "graph",
				compact:    true,
				configPath: "/test/config.yaml",
			},
		},
		{
			name:      "unknown flag",
			args:      []string{"-top", "10"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStatsFlags("/test/config.yaml", tt.args)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.input != tt.wantCmd.input {
				t.Errorf("input = %q, want %q", got.input, tt.wantCmd.input)
			}
			if got.workers != tt.wantCmd.workers {
				t.Errorf("workers = %d, want %d", got.workers, tt.wantCmd.workers)
			}
			if got.format != tt.wantCmd.format {
				t.Errorf("format = %q, want %q", got.format, tt.wantCmd.format)
			}
			if got.device != tt.wantCmd.device {
				t.Errorf("device = %q, want %q", got.device, tt.wantCmd.device)
			}
			if got.channel != tt.wantCmd.channel {
				t.Errorf("channel = %q, want %q", got.channel, tt.wantCmd.channel)
			}
			if got.compact != tt.wantCmd.compact {
				t.Errorf("compact = %v, want %v", got.compact, tt.wantCmd.compact)
			}
		})
	}
}

// TestParseWatchFlags tests watch command flag parsing.
func TestParseWatchFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCmd   watchCommand
		wantError bool
	}{
		{
			name: "default flags",
			args: []string{},
			wantCmd: watchCommand{
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "custom debounce",
			args: []string{"-debounce", "250ms"},
			wantCmd: watchCommand{
				debounce:   250 * time.Millisecond,
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "no-write mode",
			args: []string{"-no-write"},
			wantCmd: watchCommand{
				noWrite:    true,
				configPath: "/test/config.yaml",
			},
		},
		{
			name: "combined flags",
			args: []string{
				"-input", "data/",
				"-output", "out.csv",
				"-format", "simple",
				"-debounce", "2s",
			},
			wantCmd: watchCommand{
				input:      "data/",
				output:     "out.csv",
				format:     "simple",
				debounce:   2 * time.Second,
				configPath: "/test/config.yaml",
			},
		},
		{
			name:      "malformed debounce",
			args:      []string{"-debounce", "fast"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWatchFlags("/test/config.yaml", tt.args)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.input != tt.wantCmd.input {
				t.Errorf("input = %q, want %q", got.input, tt.wantCmd.input)
			}
			if got.output != tt.wantCmd.output {
				t.Errorf("output = %q, want %q", got.output, tt.wantCmd.output)
			}
			if got.format != tt.wantCmd.format {
				t.Errorf("format = %q, want %q", got.format, tt.wantCmd.format)
			}
			if got.debounce != tt.wantCmd.debounce {
				t.Errorf("debounce = %v, want %v", got.debounce, tt.wantCmd.debounce)
			}
			if got.noWrite != tt.wantCmd.noWrite {
				t.Errorf("noWrite = %v, want %v", got.noWrite, tt.wantCmd.noWrite)
			}
		})
	}
}

// TestCommandRouting tests that commands are routed correctly.
func TestCommandRouting(t *testing.T) {
	tests := []struct {
		name        string
		command     string
		shouldRoute bool
	}{
		{"report command", "report", true},
		{"stats command", "stats", true},
		{"watch command", "watch", true},
		{"history command", "history", true},
		{"config command", "config", true},
		{"help command", "help", true},
		{"unknown command", "unknown", false},
		{"invalid command", "invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validCommands := map[string]bool{
				"report":  true,
				"stats":   true,
				"watch":   true,
				"history": true,
				"config":  true,
				"help":    true,
			}

			isValid := validCommands[tt.command]
			if isValid != tt.shouldRoute {
				t.Errorf("command %q validity = %v, want %v", tt.command, isValid, tt.shouldRoute)
			}
		})
	}
}

// TestUnknownSubcommands tests subcommand routing rejects unknown names
// before touching any store or config.
func TestUnknownSubcommands(t *testing.T) {
	histCmd := &historyCommand{configPath: "/test/config.yaml"}
	if err := histCmd.Execute([]string{"bogus"}); err == nil {
		t.Error("history Execute(bogus) error = nil, want error")
	} else if !strings.Contains(err.Error(), "unknown history subcommand") {
		t.Errorf("history Execute(bogus) error = %v, want unknown subcommand", err)
	}

	confCmd := &configCommand{configPath: "/test/config.yaml"}
	if err := confCmd.Execute([]string{"bogus"}); err == nil {
		t.Error("config Execute(bogus) error = nil, want error")
	} else if !strings.Contains(err.Error(), "unknown config subcommand") {
		t.Errorf("config Execute(bogus) error = %v, want unknown subcommand", err)
	}
}

// TestFindRun tests run lookup by full ID and by prefix.
func TestFindRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := history.New(history.Config{DBPath: dbPath}, nil)
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Errorf("store.Close() error = %v", closeErr)
		}
	}()

	ids := []string{
		"aaaa1111-0000-0000-0000-000000000000",
		"aaaa2222-0000-0000-0000-000000000000",
		"bbbb3333-0000-0000-0000-000000000000",
	}
	for _, id := range ids {
		run := &history.Run{
			ID:        id,
			StartedAt: time.Now(),
			InputPath: "devices.csv",
			Status:    history.StatusOK,
		}
		if err := store.Append(run); err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
	}

	cmd := &historyCommand{}

	tests := []struct {
		name      string
		id        string
		wantID    string
		wantError string
	}{
		{
			name:   "full ID",
			id:     ids[2],
			wantID: ids[2],
		},
		{
			name:   "unique prefix",
			id:     "bbbb",
			wantID: ids[2],
		},
		{
			name:      "ambiguous prefix",
			id:        "aaaa",
			wantError: "ambiguous",
		},
		{
			name:      "no match",
			id:        "cccc",
			wantError: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := cmd.findRun(store, tt.id)

			if tt.wantError != "" {
				if err == nil {
					t.Fatalf("findRun(%q) error = nil, want %q", tt.id, tt.wantError)
				}
				if !strings.Contains(err.Error(), tt.wantError) {
					t.Errorf("findRun(%q) error = %v, want containing %q", tt.id, err, tt.wantError)
				}
				return
			}

			if err != nil {
				t.Fatalf("findRun(%q) error = %v", tt.id, err)
			}
			if run.ID != tt.wantID {
				t.Errorf("findRun(%q).ID = %s, want %s", tt.id, run.ID, tt.wantID)
			}
		})
	}
}

// TestGetConfigSource tests active config resolution with an explicit path.
func TestGetConfigSource(t *testing.T) {
	cmd := &configCommand{configPath: "/explicit/config.yaml"}

	if got := cmd.getConfigSource(); got != "/explicit/config.yaml" {
		t.Errorf("getConfigSource() = %q, want explicit path", got)
	}
}

// TestVersionFlag tests version flag handling.
func TestVersionFlag(t *testing.T) {
	// Set version
	version = "v0.1.0"

	// Test that version is set correctly
	if version != "v0.1.0" {
		t.Errorf("version = %q, want %q", version, "v0.1.0")
	}

	// Reset to dev for other tests
	version = "dev"
}
