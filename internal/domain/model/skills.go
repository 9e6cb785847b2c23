// Package model contains domain models passed between layers.
package model

import "fmt"

// Skill names one of the six rated volleyball skills.
type Skill string

// The six rated skills.
const (
	SkillServe   Skill = "serve"
	SkillSet     Skill = "set"
	SkillBlock   Skill = "block"
	SkillReceive Skill = "receive"
	SkillAttack  Skill = "attack"
	SkillDefense Skill = "defense"
)

// SkillOrder is the canonical iteration order for the six skills.
var SkillOrder = [...]Skill{ //nolint:gochecknoglobals // fixed canonical ordering
	SkillServe,
	SkillSet,
	SkillBlock,
	SkillReceive,
	SkillAttack,
	SkillDefense,
}

// Skills holds one rating per skill. Ratings are conventionally in
// [0,10]; callers clamp before handing players to the engine, the
// engine never re-clamps. The same type carries per-team averages.
type Skills struct {
	Serve   float64 `json:"serve"`
	Set     float64 `json:"set"`
	Block   float64 `json:"block"`
	Receive float64 `json:"receive"`
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
}

// Value returns the rating for sk. Unknown skills read as 0.
func (s Skills) Value(sk Skill) float64 {
	switch sk {
	case SkillServe:
		return s.Serve
	case SkillSet:
		return s.Set
	case SkillBlock:
		return s.Block
	case SkillReceive:
		return s.Receive
	case SkillAttack:
		return s.Attack
	case SkillDefense:
		return s.Defense
	default:
		return 0
	}
}

// SetValue sets the rating for sk. Unknown skills are ignored.
func (s *Skills) SetValue(sk Skill, v float64) {
	switch sk {
	case SkillServe:
		s.Serve = v
	case SkillSet:
		s.Set = v
	case SkillBlock:
		s.Block = v
	case SkillReceive:
		s.Receive = v
	case SkillAttack:
		s.Attack = v
	case SkillDefense:
		s.Defense = v
	}
}

// Uniform returns a Skills value with every rating set to v.
func Uniform(v float64) Skills {
	return Skills{Serve: v, Set: v, Block: v, Receive: v, Attack: v, Defense: v}
}

// SkillWeights maps each skill to a non-negative weight. By convention
// weights sum to 1.0 but that is not enforced anywhere: scores produced
// from unnormalized weights are relatively comparable, not absolute.
type SkillWeights struct {
	Serve   float64 `json:"serve"`
	Set     float64 `json:"set"`
	Block   float64 `json:"block"`
	Receive float64 `json:"receive"`
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
}

// DefaultSkillWeights returns equal weights of 1/6 per skill.
func DefaultSkillWeights() SkillWeights {
	const w = 1.0 / 6.0
	return SkillWeights{Serve: w, Set: w, Block: w, Receive: w, Attack: w, Defense: w}
}

// Value returns the weight for sk. Unknown skills read as 0.
func (w SkillWeights) Value(sk Skill) float64 {
	switch sk {
	case SkillServe:
		return w.Serve
	case SkillSet:
		return w.Set
	case SkillBlock:
		return w.Block
	case SkillReceive:
		return w.Receive
	case SkillAttack:
		return w.Attack
	case SkillDefense:
		return w.Defense
	default:
		return 0
	}
}

// Sum returns the total of all six weights.
func (w SkillWeights) Sum() float64 {
	return w.Serve + w.Set + w.Block + w.Receive + w.Attack + w.Defense
}

// IsZero reports whether every weight is zero, the zero value case
// callers substitute with DefaultSkillWeights.
func (w SkillWeights) IsZero() bool {
	return w == SkillWeights{}
}

// Map returns the weights keyed by skill name, e.g. for templates.
func (w SkillWeights) Map() map[string]float64 {
	m := make(map[string]float64, len(SkillOrder))
	for _, sk := range SkillOrder {
		m[string(sk)] = w.Value(sk)
	}
	return m
}

// WeightsFromMap builds SkillWeights from skill-name keys. Unknown keys
// fail with ErrUnknownSkill; missing keys keep weight 0.
func WeightsFromMap(m map[string]float64) (SkillWeights, error) {
	var w SkillWeights
	for name, v := range m {
		switch Skill(name) {
		case SkillServe:
			w.Serve = v
		case SkillSet:
			w.Set = v
		case SkillBlock:
			w.Block = v
		case SkillReceive:
			w.Receive = v
		case SkillAttack:
			w.Attack = v
		case SkillDefense:
			w.Defense = v
		default:
			return SkillWeights{}, fmt.Errorf("%w: %q", ErrUnknownSkill, name)
		}
	}
	return w, nil
}
