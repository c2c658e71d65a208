package profiles

import "errors"

var (
	// ErrUnknownPreset indicates the requested preset profile does not exist.
	ErrUnknownPreset = errors.New("unknown profile preset")
	// ErrInvalidPolicy indicates a dimension policy violates its constraints.
	ErrInvalidPolicy = errors.New("invalid dimension policy")
)
