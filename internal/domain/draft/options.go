package draft

import (
	"github.com/sideout/sideout/internal/domain/roster"
	"github.com/sideout/sideout/internal/domain/scoring"
)

// Option applies a configuration option to the Allocator.
type Option func(*Allocator)

// WithScorer sets the scorer used to rate players for the draft order.
func WithScorer(s scoring.Scorer) Option {
	return func(a *Allocator) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithAggregator sets the aggregator used to recompute dealt teams.
func WithAggregator(g *roster.Aggregator) Option {
	return func(a *Allocator) {
		if g != nil {
			a.aggregator = g
		}
	}
}

// WithTeamNamer sets the display-name generator for dealt teams.
func WithTeamNamer(namer func(i int) string) Option {
	return func(a *Allocator) {
		if namer != nil {
			a.namer = namer
		}
	}
}
