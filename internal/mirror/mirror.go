// Package mirror implements post-save precedent mirroring for Tribunal.
// After a precedent commits, its JSON payload is delivered to an external
// target on a detached goroutine. Mirroring is strictly fire-and-forget:
// delivery failure is logged and counted, never surfaced to the caller, and
// never rolls back the save.
package mirror

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Driver delivers one precedent payload to an external target.
type Driver interface {
	// Name identifies the driver for status reporting.
	Name() string
	// Mirror delivers the payload keyed by audit id. Implementations should be
	// idempotent; the same entry may be offered more than once.
	Mirror(ctx context.Context, auditID string, payload []byte) error
}

// Stats is a point-in-time snapshot of mirror delivery bookkeeping.
type Stats struct {
	Driver    string `json:"driver"`
	Delivered int64  `json:"delivered"`
	Failed    int64  `json:"failed"`
	LastError string `json:"last_error,omitempty"`
}

// System dispatches precedent payloads to the configured driver.
type System interface {
	// Driver returns the configured driver name.
	Driver() string
	// Notify delivers the payload on a detached goroutine and returns
	// immediately.
	Notify(auditID string, payload []byte)
	// Stats returns delivery bookkeeping for status reporting.
	Stats() Stats
}

type system struct {
	driver  Driver
	logger  *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	delivered int64
	failed    int64
	lastError string
}

// NewSystem wraps a driver with detached dispatch and delivery bookkeeping.
func NewSystem(driver Driver, timeout time.Duration, logger *slog.Logger) System {
	return &system{
		driver:  driver,
		logger:  logger.With("system", "mirror", "driver", driver.Name()),
		timeout: timeout,
	}
}

func (s *system) Driver() string {
	return s.driver.Name()
}

func (s *system) Notify(auditID string, payload []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.driver.Mirror(ctx, auditID, payload); err != nil {
			s.record(err)
			s.logger.Error("mirror delivery failed", "audit_id", auditID, "error", err)
			return
		}

		s.record(nil)
	}()
}

func (s *system) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Driver:    s.driver.Name(),
		Delivered: s.delivered,
		Failed:    s.failed,
		LastError: s.lastError,
	}
}

func (s *system) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.failed++
		s.lastError = err.Error()
		return
	}
	s.delivered++
}
