package audit

import (
	"context"
	"database/sql"
)

// System defines the public contract for audit chain operations. AppendTx is
// called by the precedent store inside its recording transaction; Head and
// Verify serve the HTTP surface and the status module.
type System interface {
	Handler() *Handler

	AppendTx(ctx context.Context, tx *sql.Tx, auditID string, content Content) (Record, error)
	Head(ctx context.Context) (*Record, error)
	Verify(ctx context.Context, from, to int64) (*VerifyResult, error)
}
