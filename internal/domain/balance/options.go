package balance

import (
	"time"

	"github.com/sideout/sideout/internal/domain/roster"
	"github.com/sideout/sideout/pkg/logger"
)

// Option applies a configuration option to the Optimizer.
type Option func(*Optimizer)

// WithAggregator sets the aggregator used to rescore trial teams.
func WithAggregator(g *roster.Aggregator) Option {
	return func(o *Optimizer) {
		if g != nil {
			o.aggregator = g
		}
	}
}

// WithMaxPasses caps how many full scan passes a run may take.
func WithMaxPasses(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.maxPasses = n
		}
	}
}

// WithTimeBudget caps the wall-clock time of a run. The budget is
// checked at pass boundaries, so a run costs at most one pass beyond it.
func WithTimeBudget(d time.Duration) Option {
	return func(o *Optimizer) {
		if d > 0 {
			o.timeBudget = d
		}
	}
}

// WithEpsilon sets the strict-improvement margin for spread comparisons.
func WithEpsilon(eps float64) Option {
	return func(o *Optimizer) {
		if eps > 0 {
			o.epsilon = eps
		}
	}
}

// WithClock sets the time source, a hook for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Optimizer) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets an optional logger for per-pass diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(o *Optimizer) {
		if log != nil {
			o.log = log
		}
	}
}
