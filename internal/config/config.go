// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers file and env overrides on top.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory generation job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of generation workers.
	WorkerCount int `koanf:"worker_count"`

	// StoreCapacity bounds how many assignments the store retains
	// before evicting the oldest.
	StoreCapacity int `koanf:"store_capacity"`

	// MaxPoolSize caps the number of players accepted per request.
	MaxPoolSize int `koanf:"max_pool_size"`

	// MaxPasses caps optimizer passes per generation.
	MaxPasses int `koanf:"max_passes"`

	// TimeBudgetMS caps optimizer wall-clock time per generation.
	TimeBudgetMS int `koanf:"time_budget_ms"`

	// TeamCap sets the match-play team size oversized rosters are
	// scored against.
	TeamCap int `koanf:"team_cap"`

	// DefaultWeights maps skill names to weights used when a request
	// carries none. Missing skills weigh zero; an empty map means
	// equal weights.
	DefaultWeights map[string]float64 `koanf:"default_weights"`

	// ReshuffleRetries bounds randomized reshuffle attempts.
	ReshuffleRetries int `koanf:"reshuffle_retries"`

	// ReshuffleMinDiff sets how many players must change teams for a
	// reshuffle to count as diverged.
	ReshuffleMinDiff int `koanf:"reshuffle_min_diff"`

	// TemplatesDir points at the weight-preset directory. Empty or
	// missing means no presets.
	TemplatesDir string `koanf:"templates_dir"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		StoreCapacity:    1024,
		MaxPoolSize:      500,
		MaxPasses:        200,
		TimeBudgetMS:     200,
		TeamCap:          6,
		DefaultWeights:   nil,
		ReshuffleRetries: 5,
		ReshuffleMinDiff: 2,
		TemplatesDir:     "",
	}
}

// TimeBudget returns the optimizer time budget as a duration.
func (c *Config) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetMS) * time.Millisecond
}

// Validate checks cross-field consistency after loading.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.StoreCapacity < 1:
		return fmt.Errorf("%w: store_capacity must be positive", ErrInvalidConfig)
	case c.MaxPoolSize < 1:
		return fmt.Errorf("%w: max_pool_size must be positive", ErrInvalidConfig)
	case c.MaxPasses < 1:
		return fmt.Errorf("%w: max_passes must be positive", ErrInvalidConfig)
	case c.TimeBudgetMS < 1:
		return fmt.Errorf("%w: time_budget_ms must be positive", ErrInvalidConfig)
	case c.TeamCap < 1:
		return fmt.Errorf("%w: team_cap must be positive", ErrInvalidConfig)
	case c.ReshuffleRetries < 1:
		return fmt.Errorf("%w: reshuffle_retries must be positive", ErrInvalidConfig)
	case c.ReshuffleMinDiff < 1:
		return fmt.Errorf("%w: reshuffle_min_diff must be positive", ErrInvalidConfig)
	}
	for name, v := range c.DefaultWeights {
		if v < 0 {
			return fmt.Errorf("%w: default_weights[%s] must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}
