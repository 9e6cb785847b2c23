package model

import "errors"

// Sentinel errors for model construction.
var (
	ErrUnknownSkill = errors.New("unknown skill")
)
