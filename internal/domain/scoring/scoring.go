// Package scoring computes weighted skill scores for players and slots.
package scoring

import (
	"github.com/sideout/sideout/internal/domain/model"
)

// Scorer computes a weighted score from a skill set. Implementations
// must be pure: no side effects, no failure modes. A missing skill
// field is a contract error on the caller, not a runtime condition.
type Scorer interface {
	Score(skills model.Skills, weights model.SkillWeights) float64
}

// Option applies a configuration option to the LinearScorer.
type Option func(*LinearScorer)

// WithFallbackWeights sets the weights used when a caller passes the
// zero value.
func WithFallbackWeights(w model.SkillWeights) Option {
	return func(s *LinearScorer) {
		if !w.IsZero() {
			s.fallback = w
		}
	}
}

// LinearScorer implements Scorer as a plain weighted sum of the six
// skill ratings.
type LinearScorer struct {
	fallback model.SkillWeights
}

// NewLinearScorer creates a linear scorer with configuration options.
func NewLinearScorer(opts ...Option) *LinearScorer {
	s := &LinearScorer{
		fallback: model.DefaultSkillWeights(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the weighted score, substituting the fallback weights
// when weights is the zero value.
func (s *LinearScorer) Score(skills model.Skills, weights model.SkillWeights) float64 {
	if weights.IsZero() {
		weights = s.fallback
	}
	return Score(skills, weights)
}

// Score returns the weighted linear combination of the six skill
// ratings. Weights are applied as given; no normalization happens here.
func Score(skills model.Skills, weights model.SkillWeights) float64 {
	var total float64
	for _, sk := range model.SkillOrder {
		total += skills.Value(sk) * weights.Value(sk)
	}
	return total
}

// AverageScore returns the mean weighted score across slots, computed
// fresh from each slot's skills. An empty group averages to zero.
func AverageScore(slots []model.PlayerSlot, weights model.SkillWeights) float64 {
	if len(slots) == 0 {
		return 0
	}
	var total float64
	for i := range slots {
		total += Score(slots[i].Skills, weights)
	}
	return total / float64(len(slots))
}
