package deliberation

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/tribunal/internal/precedents"
)

var (
	// ErrEmptyInput is returned when a deliberation request carries no input.
	ErrEmptyInput = errors.New("input is empty")
	// ErrInputTooLarge is returned when the input exceeds the configured
	// maximum size.
	ErrInputTooLarge = errors.New("input exceeds maximum size")
	// ErrQuorumNotMet is returned when the round closed with fewer critic
	// responses than the configured quorum. Nothing is persisted.
	ErrQuorumNotMet = errors.New("quorum not met")
	// ErrRoundNotAdmitted is returned when the caller's context ended while
	// waiting for round concurrency capacity. No critics were dispatched.
	ErrRoundNotAdmitted = errors.New("round not admitted")
)

// MapHTTPStatus translates deliberation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrQuorumNotMet):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRoundNotAdmitted):
		return http.StatusServiceUnavailable
	case errors.Is(err, precedents.ErrPersistenceFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the stable machine-readable code carried by terminal
// error events.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "empty-input"
	case errors.Is(err, ErrInputTooLarge):
		return "input-too-large"
	case errors.Is(err, ErrQuorumNotMet):
		return "quorum-not-met"
	case errors.Is(err, ErrRoundNotAdmitted):
		return "round-not-admitted"
	case errors.Is(err, precedents.ErrPersistenceFailure):
		return "persistence-failure"
	default:
		return "internal"
	}
}
