package service

import "errors"

// Sentinel kinds for service operations.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrNoEligiblePlayers = errors.New("no eligible players")
	ErrPoolTooLarge      = errors.New("player pool too large")
	ErrQueueFull         = errors.New("generation queue full")
	ErrSwapRejected      = errors.New("swap rejected")
	ErrPlayerNotFound    = errors.New("player not found in assignment")
	ErrUnknownTemplate   = errors.New("unknown template")
)
