package loadtest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sideout/sideout/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the pool test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Sideout Pool Test Tool
======================

A concurrent tool for load testing the sideout team generation service.

Usage:
  go run cmd/test-pools/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -pools int
        Number of player pools to generate and submit (default 200)
  -size int
        Players per pool (default 18)
  -teams int
        Teams per generation request (default 3)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated pools (default: generated_pools_TIMESTAMP.json)
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-pools/main.go

  # Test with custom parameters
  go run cmd/test-pools/main.go -pools 1000 -size 24 -teams 4 -workers 16

  # Test with verbose output
  go run cmd/test-pools/main.go -verbose -pools 500
`)
}
