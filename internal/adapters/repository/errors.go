package repository

import "errors"

// Sentinel kinds for assignment store errors.
var (
	ErrNotFound      = errors.New("assignment not found")
	ErrClosed        = errors.New("store closed")
	ErrNilGeneration = errors.New("nil generation")
)
