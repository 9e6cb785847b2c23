package engine

import "errors"

// Sentinel kinds for generation errors.
var (
	ErrNoPlayers        = errors.New("no eligible players")
	ErrInvalidTeamCount = errors.New("invalid team count")
)
