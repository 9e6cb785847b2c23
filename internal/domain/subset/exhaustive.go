package subset

import (
	"slices"

	"github.com/cannona/choose"

	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/scoring"
)

// defaultMaxCombinations bounds the exhaustive search space before the
// selector falls back to the window scan.
const defaultMaxCombinations = 100_000

// ExhaustiveOption applies a configuration option to the ExhaustiveSelector.
type ExhaustiveOption func(*ExhaustiveSelector)

// WithMaxCombinations sets the search-space bound above which the
// selector delegates to its fallback.
func WithMaxCombinations(n int64) ExhaustiveOption {
	return func(s *ExhaustiveSelector) {
		if n > 0 {
			s.maxCombinations = n
		}
	}
}

// WithFallback sets the selector used when the search space exceeds
// the combination bound.
func WithFallback(fallback Selector) ExhaustiveOption {
	return func(s *ExhaustiveSelector) {
		if fallback != nil {
			s.fallback = fallback
		}
	}
}

// ExhaustiveSelector implements Selector by scoring every cap-sized
// combination of the roster and keeping the best mean weighted score.
// Ties keep the first combination in lexicographic index order. Rosters
// whose C(n, cap) exceeds the configured bound fall back to the window
// scan so a pathological input cannot stall a generation run.
type ExhaustiveSelector struct {
	maxCombinations int64
	fallback        Selector
}

// NewExhaustiveSelector creates an exhaustive selector with options.
func NewExhaustiveSelector(opts ...ExhaustiveOption) *ExhaustiveSelector {
	s := &ExhaustiveSelector{
		maxCombinations: defaultMaxCombinations,
		fallback:        NewWindowSelector(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SelectBest returns the best cap-sized sub-group over the full search.
func (s *ExhaustiveSelector) SelectBest(slots []model.PlayerSlot, cap int, weights model.SkillWeights) []model.PlayerSlot {
	if cap <= 0 || len(slots) <= cap {
		return slots
	}
	if choose.Choose(int64(len(slots)), int64(cap)) > s.maxCombinations {
		return s.fallback.SelectBest(slots, cap, weights)
	}

	scores := make([]float64, len(slots))
	for i := range slots {
		scores[i] = scoring.Score(slots[i].Skills, weights)
	}

	idx := make([]int, cap)
	for i := range idx {
		idx[i] = i
	}
	best := slices.Clone(idx)
	bestSum := sumAt(scores, idx)

	for nextCombination(idx, len(slots)) {
		// Mean comparisons reduce to sum comparisons at fixed cap.
		if sum := sumAt(scores, idx); sum > bestSum {
			bestSum = sum
			copy(best, idx)
		}
	}

	out := make([]model.PlayerSlot, cap)
	for i, j := range best {
		out[i] = slots[j]
	}
	return out
}

func sumAt(scores []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += scores[i]
	}
	return sum
}

// nextCombination advances idx to the next k-combination of [0,n) in
// lexicographic order, reporting false after the last one.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	for i := k - 1; i >= 0; i-- {
		if idx[i] < n-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}
