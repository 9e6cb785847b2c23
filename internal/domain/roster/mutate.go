package roster

import (
	"slices"

	"github.com/sideout/sideout/internal/domain/model"
)

// SwapPlayer moves one player from the team at fromIdx to the team at
// toIdx and recomputes both teams. It reports false without mutating
// anything when an index is out of range, the indices are equal, the
// player is not on the source team, or the player is locked.
func (g *Aggregator) SwapPlayer(a *model.Assignment, playerID string, fromIdx, toIdx int, weights model.SkillWeights) bool {
	if fromIdx < 0 || fromIdx >= len(a.Teams) || toIdx < 0 || toIdx >= len(a.Teams) {
		return false
	}
	if fromIdx == toIdx {
		return false
	}

	from := &a.Teams[fromIdx]
	si := from.IndexOfPlayer(playerID)
	if si < 0 {
		return false
	}
	if from.Players[si].Locked {
		return false
	}

	slot := from.Players[si]
	from.Players = slices.Delete(from.Players, si, si+1)
	to := &a.Teams[toIdx]
	to.Players = append(to.Players, slot)

	g.Recompute(from, weights)
	g.Recompute(to, weights)
	return true
}

// SetLock flips the locked flag on the player wherever it sits,
// reporting false when the id is unknown. Locking never changes
// scores, so no recomputation happens.
func (g *Aggregator) SetLock(a *model.Assignment, playerID string, locked bool) bool {
	ti, si, ok := a.FindPlayer(playerID)
	if !ok {
		return false
	}
	a.Teams[ti].Players[si].Locked = locked
	return true
}
