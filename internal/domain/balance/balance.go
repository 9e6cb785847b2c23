// Package balance evens out team scores with pairwise-swap local search.
package balance

import (
	"context"
	"time"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/roster"
	"github.com/sideout/sideout/pkg/logger"
)

// Default optimizer budget constants.
const (
	defaultMaxPasses  = 200
	defaultTimeBudget = 200 * time.Millisecond
	defaultEpsilon    = 1e-9
)

// Result carries the diagnostics of one optimization run. A run that
// exhausts its time budget is a normal outcome, not an error: the
// assignment is still fully placed and fully scored, just possibly
// short of the best spread the search could reach.
type Result struct {
	Passes        int
	SwapsAccepted int
	Spread        float64
	Elapsed       time.Duration
	TimedOut      bool
}

// Optimizer narrows the max-min gap of team total scores by trading
// single players between team pairs.
//
// The search is first-improvement hill climbing: each pass scans every
// unordered team pair and every position pair, trial-swaps the two
// players, and keeps the swap only when the global spread strictly
// drops below the best seen so far. The scan never restarts inside a
// pass, so several swaps can land per pass, and locked players are
// never candidates in either role. Both budget limits are checked at
// pass boundaries only. The scan order is fixed, which makes the
// outcome deterministic for identical inputs but not globally optimal.
type Optimizer struct {
	aggregator *roster.Aggregator
	maxPasses  int
	timeBudget time.Duration
	epsilon    float64
	clock      func() time.Time
	log        logger.Logger
}

// NewOptimizer creates an optimizer with configuration options.
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{
		aggregator: roster.NewAggregator(),
		maxPasses:  defaultMaxPasses,
		timeBudget: defaultTimeBudget,
		epsilon:    defaultEpsilon,
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Optimize mutates the assignment in place until a full pass accepts
// no swap or a budget limit is hit, and reports the run diagnostics.
func (o *Optimizer) Optimize(ctx context.Context, a *model.Assignment, weights model.SkillWeights) Result {
	start := o.clock()
	bestSpread := roster.Spread(a.Teams)
	res := Result{Spread: bestSpread}

	improved := true
	for improved {
		if res.Passes >= o.maxPasses {
			break
		}
		if o.clock().Sub(start) >= o.timeBudget {
			res.TimedOut = true
			break
		}

		improved = false
		res.Passes++

		for i := 0; i < len(a.Teams)-1; i++ {
			for j := i + 1; j < len(a.Teams); j++ {
				if o.scanPair(a, i, j, weights, &bestSpread, &res) {
					improved = true
				}
			}
		}

		if o.log != nil {
			o.log.Debug(ctx, "optimizer pass complete",
				logger.Int("pass", res.Passes),
				logger.Float64("spread", bestSpread),
				logger.Bool("improved", improved),
			)
		}
	}

	res.Spread = bestSpread
	res.Elapsed = o.clock().Sub(start)
	return res
}

// scanPair tries every position pair between teams i and j, committing
// swaps that strictly reduce the spread and rolling back the rest from
// a snapshot of the two teams.
func (o *Optimizer) scanPair(a *model.Assignment, i, j int, weights model.SkillWeights, bestSpread *float64, res *Result) bool {
	improved := false
	for pi := 0; pi < len(a.Teams[i].Players); pi++ {
		for pj := 0; pj < len(a.Teams[j].Players); pj++ {
			if a.Teams[i].Players[pi].Locked || a.Teams[j].Players[pj].Locked {
				continue
			}

			// Snapshot both teams, caches included, so a rejected
			// trial restores the exact prior state.
			beforeI := a.Teams[i].Clone()
			beforeJ := a.Teams[j].Clone()

			a.Teams[i].Players[pi], a.Teams[j].Players[pj] = a.Teams[j].Players[pj], a.Teams[i].Players[pi]
			o.aggregator.Recompute(&a.Teams[i], weights)
			o.aggregator.Recompute(&a.Teams[j], weights)

			if spread := roster.Spread(a.Teams); spread < *bestSpread-o.epsilon {
				*bestSpread = spread
				res.SwapsAccepted++
				improved = true
				continue
			}

			a.Teams[i] = beforeI
			a.Teams[j] = beforeJ
		}
	}
	return improved
}
