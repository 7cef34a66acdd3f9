package loadgen

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// SetupLogging sends log output to both stdout and a file. If logFile is
// empty, a timestamped filename is generated. The returned closer releases
// the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "seed_log_" + time.Now().Format("20060102_150405") + ".log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file, nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Scout Seed Tool
===============

Generates synthetic player cohorts, posts them to a running scout service,
runs searches and verifies every result obeys the ranking rules.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Players generated per position group (default 60)
  -seasons int
        Seasons generated per player (default 2)
  -batch int
        Records per POST /records batch (default 100)
  -searches int
        Searches issued after seeding (default 60)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -seed uint
        Generator seed (default 1)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Save generated records to this file
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed a local service with default settings
  go run ./cmd/seed

  # Larger cohorts and more searches
  go run ./cmd/seed -players 200 -searches 500 -workers 16
`)
}
