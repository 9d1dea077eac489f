// Package main provides the sensor-stats CLI application.
//
// sensor-stats aggregates pipe-delimited sensor readings into monthly
// per-device statistics. The default invocation runs a one-shot batch:
// read the input file, aggregate across workers, write the report.
package main

import (
	"flag"
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run() error {
	// Define global flags.
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "show version information")

	// Parse command.
	flag.Parse()

	// Handle version flag.
	if *showVersion {
		fmt.Printf("sensor-stats %s\n", version)
		return nil
	}

	// Get command. No command runs the batch report, so the bare binary
	// behaves like the original fixed pipeline.
	args := flag.Args()
	if len(args) == 0 {
		return runReportCommand(*configPath, nil)
	}

	command := args[0]

	switch command {
	case "report":
		return runReportCommand(*configPath, args[1:])
	case "stats":
		return runStatsCommand(*configPath, args[1:])
	case "watch":
		return runWatchCommand(*configPath, args[1:])
	case "history":
		return runHistoryCommand(*configPath, args[1:])
	case "config":
		return runConfigCommand(*configPath, args[1:])
	case "help":
		return showUsage()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// parseReportFlags parses report command flags into a command.
func parseReportFlags(configPath string, args []string) (*reportCommand, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	input := fs.String("input", "", "input file or directory of .csv files")
	output := fs.String("output", "", "output report path")
	workers := fs.Int("workers", 0, "number of aggregation workers (0 = CPU count)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &reportCommand{
		input:      *input,
		output:     *output,
		workers:    *workers,
		configPath: configPath,
	}, nil
}

// runReportCommand runs the report command.
func runReportCommand(configPath string, args []string) error {
	cmd, err := parseReportFlags(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// parseStatsFlags parses stats command flags into a command.
func parseStatsFlags(configPath string, args []string) (*statsCommand, error) {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	input := fs.String("input", "", "input file or directory of .csv files")
	workers := fs.Int("workers", 0, "number of aggregation workers (0 = CPU count)")
	format := fs.String("format", "", "output format (table, json, simple, graph)")
	device := fs.String("device", "", "restrict output to one device")
	channel := fs.String("channel", "", "restrict output to one sensor channel")
	compact := fs.Bool("compact", false, "compact output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &statsCommand{
		input:      *input,
		workers:    *workers,
		format:     *format,
		device:     *device,
		channel:    *channel,
		compact:    *compact,
		configPath: configPath,
	}, nil
}

// runStatsCommand runs the stats command.
func runStatsCommand(configPath string, args []string) error {
	cmd, err := parseStatsFlags(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// parseWatchFlags parses watch command flags into a command.
func parseWatchFlags(configPath string, args []string) (*watchCommand, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	input := fs.String("input", "", "input file or directory of .csv files")
	output := fs.String("output", "", "output report path")
	format := fs.String("format", "", "render format (table, json, simple, graph)")
	debounce := fs.Duration("debounce", 0, "quiet period after a change before re-running (e.g. 500ms)")
	noWrite := fs.Bool("no-write", false, "render only, do not rewrite the report file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &watchCommand{
		input:      *input,
		output:     *output,
		format:     *format,
		debounce:   *debounce,
		noWrite:    *noWrite,
		configPath: configPath,
	}, nil
}

// runWatchCommand runs the watch command.
func runWatchCommand(configPath string, args []string) error {
	cmd, err := parseWatchFlags(configPath, args)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// runHistoryCommand runs the history command.
func runHistoryCommand(configPath string, args []string) error {
	cmd := &historyCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// runConfigCommand runs the config command.
func runConfigCommand(configPath string, args []string) error {
	cmd := &configCommand{
		configPath: configPath,
	}
	return cmd.Execute(args)
}

// showUsage displays usage information.
func showUsage() error {
	usage := `sensor-stats - monthly sensor statistics aggregator

Usage:
  sensor-stats [flags] <command> [command flags]

Running without a command is the same as running "report".

Commands:
  report      One-shot batch: read input, aggregate, write the report
  stats       Aggregate and render statistics to stdout
  watch       Re-run the batch whenever the input changes
  history     Recorded runs (list, show, clear)
  config      Configuration management (init, show, path)
  help        Show this help message

Global Flags:
  -config     Path to configuration file
  -version    Show version information

Report Command Flags:
  -input      Input file or directory of .csv files (default: devices.csv)
  -output     Output report path (default: sensor_stats.csv)
  -workers    Number of aggregation workers (default: CPU count)

Stats Command Flags:
  -input      Input file or directory of .csv files
  -workers    Number of aggregation workers
  -format     Output format (table, json, simple, graph)
  -device     Restrict output to one device
  -channel    Restrict output to one sensor channel
              (temperatura, umidade, luminosidade, ruido, eco2, etvoc)
  -compact    Compact output

Watch Command Flags:
  -input      Input file or directory of .csv files
  -output     Output report path
  -format     Render format (table, json, simple, graph)
  -debounce   Quiet period after a change before re-running (default: 500ms)
  -no-write   Render only, do not rewrite the report file

Examples:
  # One-shot batch with the configured defaults
  sensor-stats

  # Batch over a custom input with 8 workers
  sensor-stats report -input data/readings.csv -workers 8

  # Render statistics without writing a file
  sensor-stats stats

  # Statistics for one device as JSON
  sensor-stats stats -device ag-sala-03 -format json

  # Plot one channel's monthly averages
  sensor-stats stats -channel temperatura -format graph

  # Re-run the batch on every input change
  sensor-stats watch

  # Watch without touching the report file
  sensor-stats watch -no-write -format simple

  # Recorded runs
  sensor-stats history
  sensor-stats history show -id 1b9d6bcd
  sensor-stats history clear -force

  # Configuration
  sensor-stats config init
  sensor-stats config show -format json
  sensor-stats config path

Version: %s
`

	fmt.Printf(usage, version)
	return nil
}
