// Package audit implements Tribunal's tamper-evident audit chain: a hash-linked,
// append-only sequence of records, one per completed deliberation. Appends are
// serialized through a transaction-scoped advisory lock; verification recomputes
// content hashes over a stored range and checks linkage. Integrity violations
// are reported, never repaired.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// GenesisHash is the previous-hash value of the first chain record.
const GenesisHash = "sha256:genesis"

// Record is one link of the audit chain. PreviousHash equals the predecessor's
// ContentHash, or GenesisHash for the first record.
type Record struct {
	Sequence     int64     `json:"sequence"`
	AuditID      string    `json:"audit_id"`
	ContentHash  string    `json:"content_hash"`
	PreviousHash string    `json:"previous_hash"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Violation pinpoints the first chain record that failed verification.
type Violation struct {
	Sequence int64  `json:"sequence"`
	AuditID  string `json:"audit_id,omitempty"`
	Reason   string `json:"reason"`
}

// VerifyResult reports the outcome of verifying a chain range.
type VerifyResult struct {
	From      int64      `json:"from"`
	To        int64      `json:"to"`
	Checked   int64      `json:"checked"`
	Verified  bool       `json:"verified"`
	Violation *Violation `json:"violation,omitempty"`
}

// NewAuditID generates a chain record identifier.
func NewAuditID() string {
	return "AUD-" + uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
