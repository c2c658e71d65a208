// Package deliberation coordinates multi-critic evaluation rounds: fan-out to
// the critic pool, verdict collection under a deadline, aggregation, and the
// durable recording of the outcome.
package deliberation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/tribunal/internal/audit"
	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/decision"
	"github.com/JaimeStill/tribunal/internal/precedents"
	"github.com/JaimeStill/tribunal/internal/profiles"
)

// Result is the caller-facing outcome of a successful deliberation.
type Result struct {
	Decision  decision.Decision `json:"decision"`
	AuditID   string            `json:"auditId"`
	AuditHash string            `json:"auditHash"`
}

// System defines the public contract for deliberation operations.
type System interface {
	Handler() *Handler

	Deliberate(ctx context.Context, input string, pub Publisher) (*Result, error)
}

type coordinator struct {
	pool     *critics.Pool
	profile  profiles.Profile
	store    precedents.System
	logger   *slog.Logger
	rounds   *semaphore.Weighted
	quorum   int
	timeout  time.Duration
	maxInput int64
}

// New creates a deliberation coordinator. A quorum of zero resolves to the
// full pool size.
func New(
	cfg Config,
	pool *critics.Pool,
	profile profiles.Profile,
	store precedents.System,
	logger *slog.Logger,
) (System, error) {
	maxInput, err := cfg.MaxInputBytes()
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.CriticTimeoutDuration()
	if err != nil {
		return nil, err
	}

	quorum := cfg.Quorum
	if quorum == 0 {
		quorum = pool.Size()
	}
	if quorum > pool.Size() {
		return nil, fmt.Errorf("quorum %d exceeds pool size %d", quorum, pool.Size())
	}

	return &coordinator{
		pool:     pool,
		profile:  profile,
		store:    store,
		logger:   logger.With("system", "deliberation"),
		rounds:   semaphore.NewWeighted(int64(cfg.MaxConcurrentRounds)),
		quorum:   quorum,
		timeout:  timeout,
		maxInput: maxInput,
	}, nil
}

func (c *coordinator) Handler() *Handler {
	return NewHandler(c, c.logger, c.maxInput)
}

// Deliberate runs one round: every critic evaluates the input concurrently,
// verdicts are collected until all respond or the deadline passes, and the
// aggregated decision is durably recorded before the result is returned.
// Intermediate events stream to pub in collection order.
func (c *coordinator) Deliberate(ctx context.Context, input string, pub Publisher) (*Result, error) {
	if err := c.validateInput(input); err != nil {
		c.publish(ctx, pub, ErrorEvent(err))
		return nil, err
	}

	if err := c.rounds.Acquire(ctx, 1); err != nil {
		err = fmt.Errorf("%w: %v", ErrRoundNotAdmitted, err)
		c.publish(ctx, pub, ErrorEvent(err))
		return nil, err
	}
	defer c.rounds.Release(1)

	// The round outlives its subscriber: critic calls and persistence run on
	// a detached context so a client disconnect never aborts them.
	roundCtx := context.WithoutCancel(ctx)

	verdicts, responded := c.collect(ctx, roundCtx, input, pub)

	if responded < c.quorum {
		err := fmt.Errorf("%w: %d of %d required responses", ErrQuorumNotMet, responded, c.quorum)
		c.publish(ctx, pub, ErrorEvent(err))
		return nil, err
	}

	c.publish(ctx, pub, RoundComplete(len(verdicts)))

	dec := decision.Aggregate(verdicts, c.profile)

	entry, err := c.store.Record(roundCtx, audit.InputDigest(input), dec)
	if err != nil {
		c.publish(ctx, pub, ErrorEvent(err))
		return nil, err
	}

	c.publish(ctx, pub, DecisionReady(entry.Decision, entry.AuditID, entry.ContentHash))

	return &Result{
		Decision:  entry.Decision,
		AuditID:   entry.AuditID,
		AuditHash: entry.ContentHash,
	}, nil
}

// collect fans out to every pool member and gathers verdicts until all have
// responded or the round deadline passes. Critics missing at the deadline
// contribute synthetic timed-out verdicts. The returned responded count
// includes only verdicts received before close with a non-timed-out status.
func (c *coordinator) collect(
	ctx context.Context,
	roundCtx context.Context,
	input string,
	pub Publisher,
) ([]critics.Verdict, int) {
	members := c.pool.Critics()

	// Buffered to pool size so stragglers finishing after the round closed
	// never block on send.
	results := make(chan critics.Verdict, len(members))

	var wg sync.WaitGroup
	for _, member := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.evaluate(roundCtx, member, input)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	deadline := time.NewTimer(c.timeout)
	defer deadline.Stop()

	received := make(map[string]bool, len(members))
	verdicts := make([]critics.Verdict, 0, len(members))
	responded := 0

	record := func(v critics.Verdict) {
		received[v.Critic] = true
		verdicts = append(verdicts, v)
		if v.Status != critics.StatusTimedOut {
			responded++
		}
		c.publish(ctx, pub, CriticResponded(v.Critic, v.Status))
	}

collecting:
	for len(received) < len(members) {
		select {
		case v := <-results:
			record(v)
		case <-deadline.C:
			break collecting
		}
	}

	// The deadline and a delivered verdict can be ready in the same select
	// iteration, and the deadline branch may win. Anything already buffered
	// arrived in time, so sweep it up before synthesizing timed-out verdicts.
flushing:
	for len(received) < len(members) {
		select {
		case v, ok := <-results:
			if !ok {
				break flushing
			}
			record(v)
		default:
			break flushing
		}
	}

	for _, member := range members {
		if received[member.Name()] {
			continue
		}
		v := critics.TimedOut(member.Name())
		verdicts = append(verdicts, v)
		c.publish(ctx, pub, CriticResponded(v.Critic, v.Status))
	}

	go c.drain(results)

	return verdicts, responded
}

// evaluate runs one critic under its timeout and converts failures into
// synthetic verdicts so the round always receives one verdict per critic.
func (c *coordinator) evaluate(ctx context.Context, critic critics.Critic, input string) critics.Verdict {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	verdict, err := critic.Evaluate(cctx, input)
	latency := time.Since(start)

	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		verdict = critics.TimedOut(critic.Name())
	default:
		c.logger.Error("critic evaluation failed", "critic", critic.Name(), "error", err)
		verdict = critics.Errored(critic.Name())
	}

	c.pool.Observe(critic.Name(), verdict.Status, latency)
	return verdict
}

// drain consumes verdicts that arrive after the round closed. Pending critic
// calls are never cancelled; their late results are logged for pool health
// and then discarded. The channel closes once every critic goroutine has
// delivered.
func (c *coordinator) drain(results <-chan critics.Verdict) {
	for v := range results {
		c.logger.Info("late verdict discarded", "critic", v.Critic, "status", v.Status)
	}
}

func (c *coordinator) validateInput(input string) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}
	if int64(len(input)) > c.maxInput {
		return fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(input))
	}
	return nil
}

func (c *coordinator) publish(ctx context.Context, pub Publisher, event Event) {
	if err := pub.Publish(ctx, event); err != nil {
		c.logger.Error("publish event", "event", event.Event, "error", err)
	}
}
