// Package status aggregates component health for the status endpoint:
// database connectivity, precedent store reads, audit chain linkage over a
// recent window, critic pool reachability, and mirror delivery counters.
package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/tribunal/internal/audit"
	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/mirror"
	"github.com/JaimeStill/tribunal/internal/precedents"
	"github.com/JaimeStill/tribunal/pkg/database"
)

// Overall report status values.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// verifyWindow is how many records back from the chain head the audit probe
// re-verifies.
const verifyWindow = 16

// Component is one probed subsystem in the report.
type Component struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Detail  any    `json:"detail,omitempty"`
}

// Report is the aggregate health snapshot returned by the status endpoint.
type Report struct {
	Status     string      `json:"status"`
	CheckedAt  time.Time   `json:"checked_at"`
	Components []Component `json:"components"`
}

// StoreDetail carries the precedent store probe result.
type StoreDetail struct {
	Entries int `json:"entries"`
}

// ChainDetail carries the audit chain probe result.
type ChainDetail struct {
	Sequence    int64     `json:"sequence"`
	ContentHash string    `json:"content_hash"`
	RecordedAt  time.Time `json:"recorded_at"`
	Verified    bool      `json:"verified"`
	Checked     int64     `json:"checked"`
}

// System defines the public contract for health reporting.
type System interface {
	Handler() *Handler

	Check(ctx context.Context) Report
}

type system struct {
	db     database.System
	chain  audit.System
	store  precedents.System
	pool   *critics.Pool
	mirror mirror.System
	logger *slog.Logger
}

// New creates a status system probing the given components.
func New(
	db database.System,
	chain audit.System,
	store precedents.System,
	pool *critics.Pool,
	mirrorSys mirror.System,
	logger *slog.Logger,
) System {
	return &system{
		db:     db,
		chain:  chain,
		store:  store,
		pool:   pool,
		mirror: mirrorSys,
		logger: logger.With("system", "status"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Check probes every component concurrently and reports degraded when any
// probe fails.
func (s *system) Check(ctx context.Context) Report {
	components := make([]Component, 5)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		components[0] = s.checkDatabase(gctx)
		return nil
	})
	g.Go(func() error {
		components[1] = s.checkStore(gctx)
		return nil
	})
	g.Go(func() error {
		components[2] = s.checkChain(gctx)
		return nil
	})
	g.Go(func() error {
		components[3] = s.checkCritics()
		return nil
	})
	g.Go(func() error {
		components[4] = s.checkMirror()
		return nil
	})

	// Probes record failures in their component; the group never errors.
	_ = g.Wait()

	status := StatusHealthy
	for _, c := range components {
		if !c.Healthy {
			status = StatusDegraded
			break
		}
	}

	return Report{
		Status:     status,
		CheckedAt:  time.Now().UTC(),
		Components: components,
	}
}

func (s *system) checkDatabase(ctx context.Context) Component {
	c := Component{Name: "database"}

	if err := s.db.Ping(ctx); err != nil {
		c.Error = err.Error()
		return c
	}

	c.Healthy = true
	return c
}

func (s *system) checkStore(ctx context.Context) Component {
	c := Component{Name: "precedents"}

	entries, err := s.store.Count(ctx)
	if err != nil {
		c.Error = err.Error()
		return c
	}

	c.Healthy = true
	c.Detail = StoreDetail{Entries: entries}
	return c
}

// checkChain verifies linkage over the most recent records. An empty chain
// is healthy; a verification failure reports the violation reason.
func (s *system) checkChain(ctx context.Context) Component {
	c := Component{Name: "audit"}

	head, err := s.chain.Head(ctx)
	if err != nil {
		if errors.Is(err, audit.ErrEmptyChain) {
			c.Healthy = true
			return c
		}
		c.Error = err.Error()
		return c
	}

	from := head.Sequence - verifyWindow + 1
	if from < 1 {
		from = 1
	}

	result, err := s.chain.Verify(ctx, from, head.Sequence)
	if err != nil {
		c.Error = err.Error()
		return c
	}

	c.Healthy = result.Verified
	if result.Violation != nil {
		c.Error = result.Violation.Reason
	}
	c.Detail = ChainDetail{
		Sequence:    head.Sequence,
		ContentHash: head.ContentHash,
		RecordedAt:  head.RecordedAt,
		Verified:    result.Verified,
		Checked:     result.Checked,
	}
	return c
}

func (s *system) checkCritics() Component {
	c := Component{Name: "critics"}

	health := s.pool.Health()

	reachable := 0
	for _, h := range health {
		if h.Reachable() {
			reachable++
		}
	}

	c.Healthy = reachable == len(health)
	c.Detail = health
	if !c.Healthy {
		c.Error = fmt.Sprintf("%d of %d critics reachable", reachable, len(health))
	}
	return c
}

// checkMirror reports delivery counters. Mirroring is fire-and-forget, so a
// failed delivery marks the component degraded without affecting saves.
func (s *system) checkMirror() Component {
	c := Component{Name: "mirror"}

	stats := s.mirror.Stats()
	c.Healthy = stats.LastError == ""
	c.Error = stats.LastError
	c.Detail = stats
	return c
}
