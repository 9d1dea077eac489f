package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hmaia/sensor-stats/pkg/config"
	"github.com/hmaia/sensor-stats/pkg/display"
	"github.com/hmaia/sensor-stats/pkg/history"
	"github.com/hmaia/sensor-stats/pkg/logger"
)

// historyCommand handles recorded-run subcommands.
type historyCommand struct {
	configPath string
}

// Execute runs the history command with given arguments.
func (c *historyCommand) Execute(args []string) error {
	if len(args) == 0 {
		return c.runList(nil)
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "list":
		return c.runList(subargs)
	case "show":
		return c.runShow(subargs)
	case "clear":
		return c.runClear(subargs)
	case "help":
		return c.showHelp()
	default:
		// Bare flags select the default subcommand, so
		// "history -limit 5" works without naming "list".
		if strings.HasPrefix(subcommand, "-") {
			return c.runList(args)
		}
		return fmt.Errorf("unknown history subcommand: %s", subcommand)
	}
}

// openStore loads configuration and opens the run ledger.
func (c *historyCommand) openStore() (*config.Config, logger.Logger, history.Store, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	if !cfg.History.Enabled {
		return nil, nil, nil, fmt.Errorf("history is disabled in the configuration")
	}

	log := newLogger(cfg)

	store, err := history.New(history.Config{
		DBPath: cfg.History.DBPath,
	}, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open history store: %w", err)
	}

	return cfg, log, store, nil
}

// runList lists recorded runs, newest first.
func (c *historyCommand) runList(args []string) error {
	fs := flag.NewFlagSet("history list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum runs to list (0 = all)")
	format := fs.String("format", "table", "output format (table, json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	_, log, store, err := c.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close history store", "error", closeErr)
		}
	}()

	runs, err := store.List(*limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	formatter, err := display.New(display.Config{
		Format: display.Format(*format),
	})
	if err != nil {
		return err
	}

	return formatter.FormatRuns(os.Stdout, runs)
}

// runShow displays one recorded run in detail.
func (c *historyCommand) runShow(args []string) error {
	fs := flag.NewFlagSet("history show", flag.ExitOnError)
	id := fs.String("id", "", "run ID (full UUID or unique prefix)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Accept the ID as a positional argument too.
	if *id == "" && fs.NArg() > 0 {
		*id = fs.Arg(0)
	}
	if *id == "" {
		return fmt.Errorf("usage: sensor-stats history show -id <run-id>")
	}

	_, log, store, err := c.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close history store", "error", closeErr)
		}
	}()

	run, err := c.findRun(store, *id)
	if err != nil {
		return err
	}

	printRunDetails(run)
	return nil
}

// findRun looks a run up by full ID, falling back to prefix matching.
func (c *historyCommand) findRun(store history.Store, id string) (*history.Run, error) {
	run, err := store.Get(id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, history.ErrRunNotFound) {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	runs, err := store.List(0)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var matches []*history.Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run ID prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

// printRunDetails renders one run's full record.
func printRunDetails(run *history.Run) {
	fmt.Println("Run Details")
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("ID:         %s\n", run.ID)
	fmt.Printf("Status:     %s\n", run.Status)
	fmt.Printf("Started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Finished:   %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration:   %s\n", run.Duration().Round(time.Millisecond))
	fmt.Printf("Input:      %s\n", run.InputPath)

	if run.OutputPath != "" {
		fmt.Printf("Output:     %s\n", run.OutputPath)
	}

	fmt.Printf("Workers:    %d\n", run.Workers)
	fmt.Printf("Lines:      %d\n", run.Lines)
	fmt.Printf("Kept:       %d\n", run.Kept)
	fmt.Printf("Filtered:   %d\n", run.Filtered)
	fmt.Printf("Malformed:  %d\n", run.Malformed)
	fmt.Printf("Entries:    %d\n", run.Entries)
	fmt.Printf("Rows:       %d\n", run.Rows)

	if run.Error != "" {
		fmt.Printf("Error:      %s\n", run.Error)
	}
}

// runClear removes all recorded runs.
func (c *historyCommand) runClear(args []string) error {
	fs := flag.NewFlagSet("history clear", flag.ExitOnError)
	force := fs.Bool("force", false, "skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return err
	}

	_, log, store, err := c.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close history store", "error", closeErr)
		}
	}()

	if !*force {
		fmt.Print("Clear all recorded runs? [y/N]: ")

		var response string
		if _, scanErr := fmt.Scanln(&response); scanErr != nil {
			fmt.Println("Cancelled")
			return nil
		}
		response = strings.ToLower(strings.TrimSpace(response))

		if response != "y" && response != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Println("History cleared")
	return nil
}

// showHelp displays help for history command.
func (c *historyCommand) showHelp() error {
	help := `History - recorded aggregation runs

Usage:
  sensor-stats history [subcommand] [flags]

Subcommands:
  list      List recorded runs, newest first (default)
  show      Display one run in detail
  clear     Remove all recorded runs
  help      Show this help message

List Flags:
  -limit    Maximum runs to list (default: 20, 0 = all)
  -format   Output format (table, json) (default: table)

Show Flags:
  -id       Run ID, full UUID or a unique prefix

Clear Flags:
  -force    Skip confirmation prompt

Examples:
  # List the most recent runs
  sensor-stats history

  # List every recorded run as JSON
  sensor-stats history list -limit 0 -format json

  # Show one run by ID prefix
  sensor-stats history show -id 1b9d6bcd

  # Clear the ledger without confirmation
  sensor-stats history clear -force
`
	fmt.Print(help)
	return nil
}
