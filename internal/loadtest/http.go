package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req) //nolint:wrapcheck // caller annotates
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req) //nolint:wrapcheck // caller annotates
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body) //nolint:wrapcheck // caller annotates
}

// generationResult is the slice of the generation response the test
// verifies.
type generationResult struct {
	Assignment struct {
		ID    string `json:"id"`
		Teams []struct {
			Name       string  `json:"name"`
			TotalScore float64 `json:"total_score"`
			Players    []struct {
				PlayerID string `json:"player_id"`
				Locked   bool   `json:"locked"`
			} `json:"players"`
		} `json:"teams"`
	} `json:"assignment"`
	TotalScoreDifference float64 `json:"total_score_difference"`
	Iterations           int     `json:"iterations"`
}

// submission pairs a request pool with the generation it produced.
type submission struct {
	pool    Pool
	result  generationResult
	latency time.Duration
}

// submitPools submits pools concurrently using worker pools
func submitPools(ctx context.Context, config *Config, pools []Pool, stats *Stats) ([]submission, error) {
	log.Printf("submitting %d pools with %d workers...", len(pools), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/v1/assignments"

	// Counters for statistics
	var (
		successful int64
		failed     int64
		submitted  int64
	)

	var (
		mu      sync.Mutex
		results []submission
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	poolChan := make(chan Pool, config.Workers*2)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for pool := range poolChan {
				select {
				case <-ctx.Done():
					return
				default:
					result, latency, err := submitSinglePool(ctx, client, url, pool)

					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("pool submission failed: %v", err)
						}
					} else {
						atomic.AddInt64(&successful, 1)
						mu.Lock()
						results = append(results, submission{pool: pool, result: result, latency: latency})
						mu.Unlock()
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)
						log.Printf("progress: %d/%d submitted (success: %d, failed: %d)",
							total, len(pools), succ, fail)
					}
				}
			}
		}()
	}

	// Send pools to workers
	go func() {
		defer close(poolChan)
		for _, pool := range pools {
			select {
			case <-ctx.Done():
				return
			case poolChan <- pool:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Update stats
	stats.PoolsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.PoolsSuccessful = int(atomic.LoadInt64(&successful))
	stats.PoolsFailed = int(atomic.LoadInt64(&failed))
	for _, s := range results {
		stats.TotalSpread += s.result.TotalScoreDifference
		stats.TotalLatency += s.latency
		if stats.MinLatency == 0 || s.latency < stats.MinLatency {
			stats.MinLatency = s.latency
		}
		if s.latency > stats.MaxLatency {
			stats.MaxLatency = s.latency
		}
	}

	log.Printf("pool submission completed: successful=%d failed=%d",
		stats.PoolsSuccessful, stats.PoolsFailed)

	return results, nil
}

// submitSinglePool submits one pool and decodes the generation result.
func submitSinglePool(ctx context.Context, client *HTTPClient, url string, pool Pool) (generationResult, time.Duration, error) {
	var result generationResult

	start := time.Now()
	resp, err := client.Post(ctx, url, pool)
	latency := time.Since(start)
	if err != nil {
		return result, latency, fmt.Errorf("post failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return result, latency, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return result, latency, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, latency, fmt.Errorf("decode response: %w", err)
	}
	return result, latency, nil
}

// reshuffleSample reshuffles a subset of the stored assignments and
// verifies divergence.
func reshuffleSample(ctx context.Context, config *Config, results []submission, stats *Stats) {
	sampleSize := minInt(len(results), reshuffleSampleSize)
	if sampleSize == 0 {
		return
	}
	log.Printf("reshuffling %d assignments...", sampleSize)

	client := newHTTPClient(config.Timeout)
	for i := 0; i < sampleSize; i++ {
		prev := results[i].result
		url := config.BaseURL + "/api/v1/assignments/" + prev.Assignment.ID + "/reshuffle"

		resp, err := client.Post(ctx, url, map[string]int64{"seed": int64(i + 1)})
		if err != nil {
			stats.ReshuffleFailures++
			continue
		}
		body, err := readResponseBody(resp)
		if err != nil || resp.StatusCode != http.StatusOK {
			stats.ReshuffleFailures++
			continue
		}

		var next generationResult
		if err := json.Unmarshal(body, &next); err != nil {
			stats.ReshuffleFailures++
			continue
		}

		stats.ReshufflesChecked++
		if err := verifyReshuffle(prev, next); err != nil {
			stats.ReshuffleFailures++
			if config.Verbose {
				log.Printf("reshuffle verification failed for %s: %v", prev.Assignment.ID, err)
			}
		}
	}
}
