// Package roster maintains the derived caches on teams and applies
// manual roster mutations.
package roster

import (
	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/scoring"
	"github.com/sideout/sideout/internal/domain/subset"
)

// Aggregator recomputes a team's cached totals from its roster.
//
// TotalScore and SkillAverages are derived values: any code that
// touches a team's player list must call Recompute before the team is
// read again. The mutation helpers in this package do so themselves,
// so there is no raw path that leaves a stale cache behind. Rosters
// larger than the team cap are scored over the sub-group chosen by the
// configured selector; the extra players stay on the roster as
// substitutes and simply stop contributing to the caches.
type Aggregator struct {
	selector subset.Selector
	teamCap  int
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	g := &Aggregator{
		selector: subset.NewWindowSelector(),
		teamCap:  subset.DefaultTeamCap,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// TeamCap returns the configured match-play team size.
func (g *Aggregator) TeamCap() int { return g.teamCap }

// Recompute refreshes every slot score and the team's cached totals.
// An empty roster zeroes the caches.
func (g *Aggregator) Recompute(t *model.Team, weights model.SkillWeights) {
	for i := range t.Players {
		t.Players[i].Score = scoring.Score(t.Players[i].Skills, weights)
	}

	if len(t.Players) == 0 {
		t.TotalScore = 0
		t.SkillAverages = model.Skills{}
		return
	}

	effective := t.Players
	if len(effective) > g.teamCap {
		effective = g.selector.SelectBest(t.Players, g.teamCap, weights)
	}

	var total float64
	for i := range effective {
		total += effective[i].Score
	}
	t.TotalScore = total

	var averages model.Skills
	n := float64(len(effective))
	for _, sk := range model.SkillOrder {
		var sum float64
		for i := range effective {
			sum += effective[i].Skills.Value(sk)
		}
		averages.SetValue(sk, sum/n)
	}
	t.SkillAverages = averages
}

// RecomputeAll refreshes every team in the assignment.
func (g *Aggregator) RecomputeAll(a *model.Assignment, weights model.SkillWeights) {
	for i := range a.Teams {
		g.Recompute(&a.Teams[i], weights)
	}
}

// Spread returns the max-min gap of team total scores. Empty teams
// count with their zero score; no teams at all spread to zero.
func Spread(teams []model.Team) float64 {
	if len(teams) == 0 {
		return 0
	}
	minScore, maxScore := teams[0].TotalScore, teams[0].TotalScore
	for i := 1; i < len(teams); i++ {
		s := teams[i].TotalScore
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}
	return maxScore - minScore
}
