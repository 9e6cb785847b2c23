package templates

import "errors"

// Sentinel kinds for template errors.
var (
	ErrInvalidTemplate = errors.New("invalid template")
)
