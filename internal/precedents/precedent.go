// Package precedents implements the precedent domain for Tribunal: the durable,
// append-only record of every completed deliberation. Recording is transactional
// with the audit chain append; entries become readable only after commit and are
// never mutated afterwards.
package precedents

import (
	"time"

	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/decision"
)

// Entry is one persisted deliberation: the input digest, the contributing
// verdicts, the aggregated decision, and the audit chain linkage of the record
// created with it.
type Entry struct {
	AuditID      string            `json:"audit_id"`
	InputDigest  string            `json:"input_digest"`
	Profile      string            `json:"profile"`
	Outcome      decision.Outcome  `json:"outcome"`
	Verdicts     []critics.Verdict `json:"verdicts"`
	Decision     decision.Decision `json:"decision"`
	ContentHash  string            `json:"content_hash"`
	PreviousHash string            `json:"previous_hash"`
	CreatedAt    time.Time         `json:"created_at"`
}
