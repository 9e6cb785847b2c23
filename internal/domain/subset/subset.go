// Package subset selects the strongest cap-sized sub-group of a roster.
package subset

import (
	"cmp"
	"slices"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/scoring"
)

// DefaultTeamCap is the match-play team size. A roster beyond the cap
// carries substitutes that should not dilute the team's effective
// rating, so oversized teams are scored over their best cap players.
const DefaultTeamCap = 6

// Selector picks the strongest cap-sized sub-group of slots.
//
// Contract: a roster of cap or fewer players comes back unchanged.
// Implementations never mutate the input; callers treat the returned
// slice as read-only.
type Selector interface {
	SelectBest(slots []model.PlayerSlot, cap int, weights model.SkillWeights) []model.PlayerSlot
}

// WindowSelector implements Selector with a sliding-window scan.
//
// Candidates: every contiguous window of cap players over the roster
// sorted ascending by individual weighted score, plus the first cap
// players in original roster order as the baseline. The candidate with
// the highest mean weighted score wins; the earlier candidate wins
// ties. For cap 6 over a roster of 8 that is 3 windows out of the 28
// possible groups, so this is a bounded heuristic scan, not an
// exhaustive search. ExhaustiveSelector covers the full search when
// that tradeoff is wrong for the caller.
type WindowSelector struct{}

// NewWindowSelector creates the default sliding-window selector.
func NewWindowSelector() *WindowSelector { return &WindowSelector{} }

type rankedSlot struct {
	slot  model.PlayerSlot
	score float64
}

// SelectBest returns the best cap-sized sub-group per the window scan.
func (s *WindowSelector) SelectBest(slots []model.PlayerSlot, cap int, weights model.SkillWeights) []model.PlayerSlot {
	if cap <= 0 || len(slots) <= cap {
		return slots
	}

	ranked := make([]rankedSlot, len(slots))
	for i := range slots {
		ranked[i] = rankedSlot{slot: slots[i], score: scoring.Score(slots[i].Skills, weights)}
	}
	slices.SortStableFunc(ranked, func(a, b rankedSlot) int {
		return cmp.Compare(a.score, b.score)
	})

	// Baseline: the first cap players in original roster order.
	bestStart := -1
	bestAvg := scoring.AverageScore(slots[:cap], weights)

	var sum float64
	for i := 0; i < cap; i++ {
		sum += ranked[i].score
	}
	for start := 0; ; start++ {
		if avg := sum / float64(cap); avg > bestAvg {
			bestAvg = avg
			bestStart = start
		}
		if start+cap >= len(ranked) {
			break
		}
		sum += ranked[start+cap].score - ranked[start].score
	}

	if bestStart < 0 {
		return slices.Clone(slots[:cap])
	}
	out := make([]model.PlayerSlot, cap)
	for i := range out {
		out[i] = ranked[bestStart+i].slot
	}
	return out
}
