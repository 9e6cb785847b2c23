package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sideout/sideout/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// HTTP status code constants.
const (
	statusOK = 200
)

// Run executes the complete pool load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting sideout pool test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("pools", config.NumPools),
		logger.Int("poolSize", config.PoolSize),
		logger.Int("teams", config.NumTeams),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate pools
	pools, err := generatePools(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("pool generation failed: %w", err)
	}

	// Step 3: Submit pools concurrently
	results, err := submitPools(ctx, config, pools, stats)
	if err != nil {
		return fmt.Errorf("pool submission failed: %w", err)
	}

	// Step 4: Verify conservation and shape of every generation
	if err := verifyResults(config, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Reshuffle a sample and verify divergence
	reshuffleSample(ctx, config, results, stats)

	// Step 6: Save pools to file
	if err := savePoolsToFile(ctx, config, pools); err != nil {
		logger.Get().Warn(ctx, "failed to save pools to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePoolsToFile saves the generated pools to a JSON file.
func savePoolsToFile(ctx context.Context, config *Config, pools []Pool) error {
	if len(pools) == 0 {
		return fmt.Errorf("no pools to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_pools_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, pool := range pools {
		jsonData, err := json.Marshal(pool)
		if err != nil {
			return fmt.Errorf("failed to marshal pool %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write pool %d: %w", i, err)
		}

		if i < len(pools)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "pools saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, poolsPerSecond, avgSpread float64
	var avgLatency time.Duration

	if stats.PoolsSubmitted > 0 {
		successRate = float64(stats.PoolsSuccessful) / float64(stats.PoolsSubmitted) * 100
	}
	if stats.Duration > 0 {
		poolsPerSecond = float64(stats.PoolsSubmitted) / stats.Duration.Seconds()
	}
	if stats.PoolsSuccessful > 0 {
		avgSpread = stats.TotalSpread / float64(stats.PoolsSuccessful)
		avgLatency = stats.TotalLatency / time.Duration(stats.PoolsSuccessful)
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("poolsGenerated", stats.PoolsGenerated),
		logger.Int("poolsSubmitted", stats.PoolsSubmitted),
		logger.Int("poolsSuccessful", stats.PoolsSuccessful),
		logger.Int("poolsFailed", stats.PoolsFailed),
		logger.Int("conservationFailures", stats.ConservationFailures),
		logger.Int("reshufflesChecked", stats.ReshufflesChecked),
		logger.Int("reshuffleFailures", stats.ReshuffleFailures),
		logger.Float64("avgSpread", avgSpread),
		logger.Duration("minLatency", stats.MinLatency),
		logger.Duration("avgLatency", avgLatency),
		logger.Duration("maxLatency", stats.MaxLatency),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("poolsPerSecond", poolsPerSecond))
}
