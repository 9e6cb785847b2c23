package engine

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/scoring"
	"github.com/sideout/sideout/pkg/logger"
)

// Reshuffle regenerates an assignment for the same pool while making
// sure the outcome actually looks different from the previous one.
//
// Randomized attempts shuffle the pool before drafting, which varies
// the draft only through tie-break order, so each attempt is checked
// against the previous membership: at least reshuffleMinDiff players
// must have changed teams. When the bounded attempts fail to diverge,
// a deterministic fallback rotates the score-sorted pool by one more
// position per try and deals it in that order, which moves players for
// any pool that can move at all. The last attempt is returned when even
// rotation cannot diverge, e.g. a single team holding everyone.
func (e *Engine) Reshuffle(ctx context.Context, players []model.Player, numTeams int, previous *model.Assignment, opts ...GenerateOption) (*model.Generation, error) {
	if numTeams < 1 {
		return nil, ErrInvalidTeamCount
	}
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	p := buildParams(opts)
	seed := p.seed
	if !p.seedSet {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1)) //nolint:gosec // reshuffle variety, not cryptography

	var last *model.Generation
	for attempt := 0; attempt < e.reshuffleRetries; attempt++ {
		shuffled := slices.Clone(players)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		gen, err := e.generate(ctx, shuffled, numTeams, p, false)
		if err != nil {
			return nil, err
		}
		last = gen

		if previous == nil || MembershipDiff(previous, gen.Assignment) >= e.reshuffleMinDiff {
			return gen, nil
		}
	}

	if e.log != nil {
		e.log.Debug(ctx, "randomized reshuffle attempts did not diverge; rotating",
			logger.Int("attempts", e.reshuffleRetries),
		)
	}

	// Forced rotation: deal the score-sorted pool starting k players in.
	sorted := sortByScore(players, p.weights)
	for k := 1; k < len(sorted); k++ {
		rotated := make([]model.Player, 0, len(sorted))
		rotated = append(rotated, sorted[k:]...)
		rotated = append(rotated, sorted[:k]...)

		gen, err := e.generate(ctx, rotated, numTeams, p, true)
		if err != nil {
			return nil, err
		}
		last = gen

		if MembershipDiff(previous, gen.Assignment) >= e.reshuffleMinDiff {
			return gen, nil
		}
	}

	return last, nil
}

// MembershipDiff counts, per team position, the players present in one
// assignment's team but not the other's, summed over all teams. Two
// identical assignments diff to zero; one moved player counts twice,
// once leaving its old team and once joining the new one.
func MembershipDiff(prev, next *model.Assignment) int {
	prevSets := prev.MembershipSets()
	nextSets := next.MembershipSets()

	diff := 0
	n := len(prevSets)
	if len(nextSets) > n {
		n = len(nextSets)
	}
	for i := 0; i < n; i++ {
		var a, b map[string]struct{}
		if i < len(prevSets) {
			a = prevSets[i]
		}
		if i < len(nextSets) {
			b = nextSets[i]
		}
		for id := range a {
			if _, ok := b[id]; !ok {
				diff++
			}
		}
		for id := range b {
			if _, ok := a[id]; !ok {
				diff++
			}
		}
	}
	return diff
}

func sortByScore(players []model.Player, weights model.SkillWeights) []model.Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b model.Player) int {
		return cmp.Compare(scoring.Score(b.Skills, weights), scoring.Score(a.Skills, weights))
	})
	return sorted
}
