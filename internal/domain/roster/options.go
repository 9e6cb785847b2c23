package roster

import "github.com/sideout/sideout/internal/domain/subset"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithSelector sets the sub-group selector used for oversized rosters.
func WithSelector(sel subset.Selector) Option {
	return func(g *Aggregator) {
		if sel != nil {
			g.selector = sel
		}
	}
}

// WithTeamCap sets the match-play team size.
func WithTeamCap(teamCap int) Option {
	return func(g *Aggregator) {
		if teamCap > 0 {
			g.teamCap = teamCap
		}
	}
}
