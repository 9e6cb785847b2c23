package model

// Player is a rated roster member as provided by the caller.
// Skill values arrive already clamped; Tags are informational and
// never consulted by the engine.
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Skills    Skills   `json:"skills"`
	Available bool     `json:"available"`
	Tags      []string `json:"tags,omitempty"`
}

// PlayerSlot is a by-value snapshot of a player embedded in a Team.
// Mutating a slot never touches the caller's Player record.
type PlayerSlot struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Skills   Skills  `json:"skills"`
	Locked   bool    `json:"locked"`
}

// NewSlot snapshots p with the given precomputed score.
func NewSlot(p Player, score float64) PlayerSlot {
	return PlayerSlot{
		PlayerID: p.ID,
		Name:     p.Name,
		Score:    score,
		Skills:   p.Skills,
		Locked:   false,
	}
}
