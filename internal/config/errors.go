package config

import "errors"

// Sentinel kinds for configuration loading and validation. Callers
// match them with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
