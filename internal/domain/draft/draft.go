// Package draft builds the initial team assignment with a snake draft.
package draft

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/roster"
	"github.com/sideout/sideout/internal/domain/scoring"
)

// Allocator distributes players across teams.
//
// Placement walks the scored list in a boustrophedon order: left to
// right over the teams, then right to left, alternating, skipping any
// team already at its target size. Team 0 and team N-1 each take one
// of the two strongest players, which is the classic snake-draft
// fairness heuristic. Equal scores keep their input order, so a fixed
// input produces a fixed draft.
type Allocator struct {
	scorer     scoring.Scorer
	aggregator *roster.Aggregator
	namer      func(i int) string
}

// NewAllocator creates an allocator with configuration options.
func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{
		scorer:     scoring.NewLinearScorer(),
		aggregator: roster.NewAggregator(),
		namer:      defaultTeamName,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func defaultTeamName(i int) string {
	return fmt.Sprintf("Team %d", i+1)
}

// Allocate scores the players, sorts them descending (stable), and
// deals them across numTeams teams snake-style. playersPerTeam sets
// the fill target per team; zero derives ceil(players/numTeams). The
// target is advisory: when every team is full and players remain, the
// remainder is appended round-robin starting at team 0, so every
// player is always placed. All teams come back recomputed. Unavailable
// players are the caller's concern; the allocator places everything it
// receives.
func (al *Allocator) Allocate(players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) []model.Team {
	slots := al.score(players, weights)
	slices.SortStableFunc(slots, func(a, b model.PlayerSlot) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return al.deal(slots, numTeams, playersPerTeam, weights)
}

// AllocateOrdered deals the players in the order given, without the
// descending sort. Reshuffling uses it to realize a forced rotation.
func (al *Allocator) AllocateOrdered(players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) []model.Team {
	return al.deal(al.score(players, weights), numTeams, playersPerTeam, weights)
}

func (al *Allocator) score(players []model.Player, weights model.SkillWeights) []model.PlayerSlot {
	slots := make([]model.PlayerSlot, len(players))
	for i := range players {
		slots[i] = model.NewSlot(players[i], al.scorer.Score(players[i].Skills, weights))
	}
	return slots
}

func (al *Allocator) deal(slots []model.PlayerSlot, numTeams, playersPerTeam int, weights model.SkillWeights) []model.Team {
	if numTeams <= 0 {
		return nil
	}

	teams := make([]model.Team, numTeams)
	for i := range teams {
		teams[i] = model.Team{
			ID:   fmt.Sprintf("team-%d", i+1),
			Name: al.namer(i),
		}
	}

	target := playersPerTeam
	if target <= 0 {
		target = (len(slots) + numTeams - 1) / numTeams
	}

	idx := 0
	for idx < len(slots) {
		placed := false
		for t := 0; t < numTeams && idx < len(slots); t++ {
			if len(teams[t].Players) >= target {
				continue
			}
			teams[t].Players = append(teams[t].Players, slots[idx])
			idx++
			placed = true
		}
		for t := numTeams - 1; t >= 0 && idx < len(slots); t-- {
			if len(teams[t].Players) >= target {
				continue
			}
			teams[t].Players = append(teams[t].Players, slots[idx])
			idx++
			placed = true
		}
		if !placed && idx < len(slots) {
			// Every team is at target with players left over: the
			// target is advisory, so the rest goes round-robin.
			for t := 0; idx < len(slots); t = (t + 1) % numTeams {
				teams[t].Players = append(teams[t].Players, slots[idx])
				idx++
			}
		}
	}

	for i := range teams {
		al.aggregator.Recompute(&teams[i], weights)
	}
	return teams
}
