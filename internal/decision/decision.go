// Package decision implements deterministic verdict aggregation for Tribunal.
// Aggregate is a pure function: no clock, no randomness, no I/O. Its output is
// canonically serialized into the audit content hash, so identical verdicts
// and profile must always produce a byte-identical Decision.
package decision

import (
	"github.com/JaimeStill/tribunal/internal/critics"
)

// Outcome is the terminal judgment of a deliberation round.
type Outcome string

const (
	// OutcomeApprove means every dimension minimum met its threshold.
	OutcomeApprove Outcome = "approve"
	// OutcomeApproveWithMitigation means at least one dimension fell below its
	// threshold (or had no usable scores) but none fell below its floor.
	OutcomeApproveWithMitigation Outcome = "approve-with-mitigation"
	// OutcomeReject means at least one dimension minimum fell below its floor.
	OutcomeReject Outcome = "reject"
)

// Mitigation records one triggered dimension policy. Observed is nil when the
// dimension had no usable scores.
type Mitigation struct {
	Dimension string   `json:"dimension"`
	Threshold float64  `json:"threshold"`
	Observed  *float64 `json:"observed,omitempty"`
	Action    string   `json:"action"`
}

// DimensionMinimum is the lowest score a dimension received from verdicts that
// evaluated it, along with how many verdicts contributed. Score is nil when no
// verdict scored the dimension.
type DimensionMinimum struct {
	Dimension string   `json:"dimension"`
	Score     *float64 `json:"score,omitempty"`
	Scored    int      `json:"scored"`
}

// Decision is the aggregated result of one deliberation round. Minima and
// Mitigations follow the profile's declared dimension order; Verdicts are
// sorted by critic name. Decisions are append-only once produced.
type Decision struct {
	Outcome     Outcome            `json:"outcome"`
	Profile     string             `json:"profile"`
	Minima      []DimensionMinimum `json:"minima"`
	Mitigations []Mitigation       `json:"mitigations,omitempty"`
	Verdicts    []critics.Verdict  `json:"verdicts"`
}
