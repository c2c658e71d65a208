package critics

import "time"

// Status classifies how a critic's evaluation concluded.
type Status string

const (
	// StatusOK means the critic returned a real evaluation.
	StatusOK Status = "ok"
	// StatusTimedOut means the critic exceeded its latency budget; the verdict
	// is synthetic and carries no scores.
	StatusTimedOut Status = "timed-out"
	// StatusErrored means the critic failed; the verdict is synthetic and
	// carries no scores.
	StatusErrored Status = "errored"
)

// Assessment is one critic's judgment of a single dimension.
type Assessment struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale,omitempty"`
}

// Verdict is the complete output of one critic for one deliberation round.
// Assessments maps dimension name to score and rationale; synthetic verdicts
// (timed-out, errored) have no assessments and never contribute scores.
type Verdict struct {
	Critic      string                `json:"critic"`
	Status      Status                `json:"status"`
	Assessments map[string]Assessment `json:"assessments,omitempty"`
	Flags       []string              `json:"flags,omitempty"`
	EvaluatedAt time.Time             `json:"evaluated_at"`
}

// Scored reports whether the verdict contributes scores to aggregation.
func (v Verdict) Scored() bool {
	return v.Status == StatusOK && len(v.Assessments) > 0
}

// TimedOut builds the synthetic verdict recorded when a critic misses the
// round deadline.
func TimedOut(critic string) Verdict {
	return Verdict{
		Critic:      critic,
		Status:      StatusTimedOut,
		EvaluatedAt: Now(),
	}
}

// Errored builds the synthetic verdict recorded when a critic fails.
func Errored(critic string) Verdict {
	return Verdict{
		Critic:      critic,
		Status:      StatusErrored,
		EvaluatedAt: Now(),
	}
}

// Now returns the current UTC time truncated to microsecond precision, the
// resolution persisted by TIMESTAMPTZ columns. Verdict timestamps must survive
// a database round-trip unchanged or audit hash verification would fail.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
