package critics

import (
	"fmt"
	"sync"
	"time"
)

// Health is a point-in-time snapshot of one pool member's round bookkeeping.
type Health struct {
	Critic      string `json:"critic"`
	Evaluations int64  `json:"evaluations"`
	Timeouts    int64  `json:"timeouts"`
	Failures    int64  `json:"failures"`
	LastStatus  Status `json:"last_status,omitempty"`
	LastLatency string `json:"last_latency,omitempty"`
}

// Reachable reports whether the member's most recent evaluation succeeded.
// Members that have never evaluated are considered reachable.
func (h Health) Reachable() bool {
	return h.LastStatus == "" || h.LastStatus == StatusOK
}

type memberStats struct {
	evaluations int64
	timeouts    int64
	failures    int64
	lastStatus  Status
	lastLatency time.Duration
}

// Pool is the fixed set of critics consulted each deliberation round. The
// member list is immutable after construction; per-member health bookkeeping
// is updated by the coordinator as rounds complete.
type Pool struct {
	critics []Critic

	mu    sync.Mutex
	stats map[string]*memberStats
}

// NewPool builds a pool from the given critics. Member names must be unique
// and the pool must not be empty.
func NewPool(members ...Critic) (*Pool, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("critic pool requires at least one member")
	}

	stats := make(map[string]*memberStats, len(members))
	for _, critic := range members {
		if critic.Name() == "" {
			return nil, fmt.Errorf("critic with empty name")
		}
		if _, exists := stats[critic.Name()]; exists {
			return nil, fmt.Errorf("duplicate critic name %q", critic.Name())
		}
		stats[critic.Name()] = &memberStats{}
	}

	return &Pool{
		critics: members,
		stats:   stats,
	}, nil
}

// Size returns the number of pool members.
func (p *Pool) Size() int {
	return len(p.critics)
}

// Members returns the pool member names in configured order.
func (p *Pool) Members() []string {
	names := make([]string, len(p.critics))
	for i, critic := range p.critics {
		names[i] = critic.Name()
	}
	return names
}

// Critics returns the pool members in configured order.
func (p *Pool) Critics() []Critic {
	return p.critics
}

// Observe records the outcome of one member evaluation for health reporting.
func (p *Pool) Observe(critic string, status Status, latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats, ok := p.stats[critic]
	if !ok {
		return
	}

	stats.evaluations++
	stats.lastStatus = status
	stats.lastLatency = latency

	switch status {
	case StatusTimedOut:
		stats.timeouts++
	case StatusErrored:
		stats.failures++
	}
}

// Health returns a snapshot of member bookkeeping in configured order.
func (p *Pool) Health() []Health {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make([]Health, 0, len(p.critics))
	for _, critic := range p.critics {
		stats := p.stats[critic.Name()]

		health := Health{
			Critic:      critic.Name(),
			Evaluations: stats.evaluations,
			Timeouts:    stats.timeouts,
			Failures:    stats.failures,
			LastStatus:  stats.lastStatus,
		}
		if stats.lastLatency > 0 {
			health.LastLatency = stats.lastLatency.String()
		}

		snapshot = append(snapshot, health)
	}

	return snapshot
}
