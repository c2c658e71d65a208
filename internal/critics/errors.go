package critics

import "errors"

var (
	// ErrCriticUnavailable indicates a critic backend could not be reached or
	// constructed. Absorbed by the coordinator as an errored verdict.
	ErrCriticUnavailable = errors.New("critic unavailable")
	// ErrCriticTimeout indicates a critic exceeded its latency budget.
	// Absorbed by the coordinator as a timed-out verdict.
	ErrCriticTimeout = errors.New("critic timed out")
	// ErrUnknownBackend indicates the configured critic backend does not exist.
	ErrUnknownBackend = errors.New("unknown critic backend")
)
