package engine

import (
	"github.com/sideout/sideout/internal/domain/balance"
	"github.com/sideout/sideout/internal/domain/draft"
	"github.com/sideout/sideout/internal/domain/roster"
	"github.com/sideout/sideout/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAggregator sets the aggregator shared by the pipeline stages.
func WithAggregator(g *roster.Aggregator) Option {
	return func(e *Engine) {
		if g != nil {
			e.aggregator = g
		}
	}
}

// WithAllocator sets the initial allocator.
func WithAllocator(a *draft.Allocator) Option {
	return func(e *Engine) {
		if a != nil {
			e.allocator = a
		}
	}
}

// WithOptimizer sets the balance optimizer.
func WithOptimizer(o *balance.Optimizer) Option {
	return func(e *Engine) {
		if o != nil {
			e.optimizer = o
		}
	}
}

// WithReshuffleRetries bounds the randomized reshuffle attempts before
// the forced-rotation fallback takes over.
func WithReshuffleRetries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.reshuffleRetries = n
		}
	}
}

// WithReshuffleMinDiff sets how many players must change teams for a
// reshuffle attempt to count as diverged.
func WithReshuffleMinDiff(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.reshuffleMinDiff = n
		}
	}
}

// WithLogger sets an optional logger for pipeline diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}
