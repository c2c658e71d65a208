package audit

import (
	"errors"
	"net/http"
)

// Domain errors for audit chain operations.
var (
	ErrIntegrityViolation = errors.New("audit chain integrity violation")
	ErrEmptyChain         = errors.New("audit chain is empty")
	ErrInvalidRange       = errors.New("invalid verification range")
)

// MapHTTPStatus maps audit domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyChain) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidRange) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
