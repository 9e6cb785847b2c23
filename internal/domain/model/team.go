package model

import (
	"slices"
	"time"
)

// Team is one side of an assignment. TotalScore and SkillAverages are
// derived caches: they must be recomputed after every roster change
// because a roster of seven or more is scored over its best six only.
type Team struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Players       []PlayerSlot `json:"players"`
	TotalScore    float64      `json:"total_score"`
	SkillAverages Skills       `json:"skill_averages"`
}

// IndexOfPlayer returns the position of the slot with the given player
// id, or -1 when absent.
func (t *Team) IndexOfPlayer(playerID string) int {
	for i := range t.Players {
		if t.Players[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}

// PlayerIDs returns the ids of all roster members in order.
func (t *Team) PlayerIDs() []string {
	ids := make([]string, len(t.Players))
	for i := range t.Players {
		ids[i] = t.Players[i].PlayerID
	}
	return ids
}

// Clone returns a deep copy of the team.
func (t *Team) Clone() Team {
	c := *t
	c.Players = slices.Clone(t.Players)
	return c
}

// Assignment is the mutable aggregate a generation run produces: an
// ordered list of teams. It is mutated in place by the optimizer and
// by the mutation operations, then discarded or stored by the caller.
type Assignment struct {
	ID        string    `json:"id"`
	Teams     []Team    `json:"teams"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Clone returns a deep copy of the assignment.
func (a *Assignment) Clone() *Assignment {
	c := &Assignment{ID: a.ID, Teams: make([]Team, len(a.Teams)), CreatedAt: a.CreatedAt}
	for i := range a.Teams {
		c.Teams[i] = a.Teams[i].Clone()
	}
	return c
}

// FindPlayer locates a player across all teams, returning team and
// slot indices, or ok=false when the id is unknown.
func (a *Assignment) FindPlayer(playerID string) (teamIdx, slotIdx int, ok bool) {
	for ti := range a.Teams {
		if si := a.Teams[ti].IndexOfPlayer(playerID); si >= 0 {
			return ti, si, true
		}
	}
	return 0, 0, false
}

// MembershipSets returns one player-id set per team, used to diff two
// assignments of the same pool.
func (a *Assignment) MembershipSets() []map[string]struct{} {
	sets := make([]map[string]struct{}, len(a.Teams))
	for i := range a.Teams {
		set := make(map[string]struct{}, len(a.Teams[i].Players))
		for _, p := range a.Teams[i].Players {
			set[p.PlayerID] = struct{}{}
		}
		sets[i] = set
	}
	return sets
}

// Generation is the diagnostic record returned by a generation run. The
// weights the run used are kept so later mutations recompute with the
// same scoring the teams were built under.
type Generation struct {
	Assignment           *Assignment   `json:"assignment"`
	Weights              SkillWeights  `json:"weights"`
	TotalScoreDifference float64       `json:"total_score_difference"`
	SkillBalanceScore    float64       `json:"skill_balance_score"`
	Iterations           int           `json:"iterations"`
	ExecutionTime        time.Duration `json:"execution_time"`
}

// Clone returns a deep copy of the generation record.
func (g *Generation) Clone() *Generation {
	c := *g
	if g.Assignment != nil {
		c.Assignment = g.Assignment.Clone()
	}
	return &c
}
