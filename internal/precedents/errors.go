package precedents

import (
	"errors"
	"net/http"
)

// Domain errors for precedent operations.
var (
	ErrNotFound           = errors.New("precedent not found")
	ErrDuplicate          = errors.New("precedent already exists")
	ErrPersistenceFailure = errors.New("precedent persistence failed")
)

// MapHTTPStatus maps precedent domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrPersistenceFailure) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
