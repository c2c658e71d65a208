// Package critics implements the critic domain for Tribunal: the evaluation
// contract, the configured critic pool with health bookkeeping, and the two
// critic backends (LLM agent and deterministic lexical heuristics).
package critics

import "context"

// Supported critic backends.
const (
	BackendLexical = "lexical"
	BackendAgent   = "agent"
)

// Critic evaluates an input along one or more assessment dimensions within
// the caller's deadline. Implementations must honor ctx cancellation; the
// coordinator enforces the per-critic latency budget through it.
type Critic interface {
	// Name identifies the critic within its pool.
	Name() string
	// Evaluate produces a verdict for the input. Errors are absorbed by the
	// caller as synthetic errored verdicts, never propagated to clients.
	Evaluate(ctx context.Context, input string) (Verdict, error)
}
