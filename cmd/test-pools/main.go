package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/sideout/sideout/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumPools    = 200
	defaultPoolSize    = 18
	defaultNumTeams    = 3
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numPools   = flag.Int("pools", defaultNumPools, "Number of player pools to generate and submit")
		poolSize   = flag.Int("size", defaultPoolSize, "Players per pool")
		numTeams   = flag.Int("teams", defaultNumTeams, "Teams per generation request")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated pools (default: generated_pools_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	// Setup logging
	if err := loadtest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &loadtest.Config{
		BaseURL:    *baseURL,
		NumPools:   *numPools,
		PoolSize:   *poolSize,
		NumTeams:   *numTeams,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the test
	if err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
