package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/decision"
	"github.com/JaimeStill/tribunal/pkg/query"
	"github.com/JaimeStill/tribunal/pkg/repository"
)

// chainLockID keys the transaction-scoped advisory lock serializing appends.
const chainLockID int64 = 0x5452494255_4e41 // "TRIBUNA"

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an audit chain repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "audit"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// AppendTx appends one record inside the caller's transaction. The advisory
// lock is transaction-scoped, so concurrent appends queue until the holding
// transaction commits or rolls back; previousHash therefore always references
// the most recently committed record.
func (r *repo) AppendTx(ctx context.Context, tx *sql.Tx, auditID string, content Content) (Record, error) {
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", chainLockID); err != nil {
		return Record{}, fmt.Errorf("acquire chain lock: %w", err)
	}

	previousHash, err := repository.QueryValue[string](
		ctx, tx,
		"SELECT content_hash FROM audit_records ORDER BY seq DESC LIMIT 1",
	)
	if errors.Is(err, sql.ErrNoRows) {
		previousHash = GenesisHash
	} else if err != nil {
		return Record{}, fmt.Errorf("read chain tail: %w", err)
	}

	contentHash, err := content.Hash()
	if err != nil {
		return Record{}, err
	}

	record := Record{
		AuditID:      auditID,
		ContentHash:  contentHash,
		PreviousHash: previousHash,
		RecordedAt:   now(),
	}

	record.Sequence, err = repository.QueryValue[int64](
		ctx, tx,
		`INSERT INTO audit_records (audit_id, content_hash, previous_hash, recorded_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING seq`,
		record.AuditID, record.ContentHash, record.PreviousHash, record.RecordedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("append audit record: %w", err)
	}

	return record, nil
}

// Head returns the most recently committed chain record.
func (r *repo) Head(ctx context.Context) (*Record, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "Sequence", Descending: true}).
		BuildPage(1, 1)

	record, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmptyChain
	}
	if err != nil {
		return nil, fmt.Errorf("read chain head: %w", err)
	}

	return &record, nil
}

// Verify recomputes content hashes and linkage over the inclusive range
// [from, to]. A zero `to` means the current head. The first failure is
// reported as a Violation; the chain is never modified.
func (r *repo) Verify(ctx context.Context, from, to int64) (*VerifyResult, error) {
	if from < 1 {
		from = 1
	}

	if to == 0 {
		head, err := r.Head(ctx)
		if errors.Is(err, ErrEmptyChain) {
			return &VerifyResult{From: from, To: 0, Verified: true}, nil
		}
		if err != nil {
			return nil, err
		}
		to = head.Sequence
	}

	if from > to {
		return nil, fmt.Errorf("%w: from %d exceeds to %d", ErrInvalidRange, from, to)
	}

	expectedPrevious := GenesisHash
	if from > 1 {
		var err error
		expectedPrevious, err = repository.QueryValue[string](
			ctx, r.db,
			"SELECT content_hash FROM audit_records WHERE seq = $1", from-1,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return result(from, to, 0, &Violation{
				Sequence: from,
				Reason:   fmt.Sprintf("predecessor %d missing", from-1),
			}), nil
		}
		if err != nil {
			return nil, fmt.Errorf("read predecessor: %w", err)
		}
	}

	qb := query.NewBuilder(verifyProjection, chainOrder).
		WhereGTE("Sequence", from).
		WhereLTE("Sequence", to)

	rangeSQL, rangeArgs := qb.Build()
	rows, err := repository.QueryMany(ctx, r.db, rangeSQL, rangeArgs, scanChainRow)
	if err != nil {
		return nil, fmt.Errorf("query chain range: %w", err)
	}

	expectedSeq := from
	checked := int64(0)

	for _, row := range rows {
		if row.Sequence != expectedSeq {
			return result(from, to, checked, &Violation{
				Sequence: expectedSeq,
				Reason:   fmt.Sprintf("chain gap: expected sequence %d, found %d", expectedSeq, row.Sequence),
			}), nil
		}

		if violation := r.checkRecord(row, expectedPrevious); violation != nil {
			return result(from, to, checked, violation), nil
		}

		expectedPrevious = row.ContentHash
		expectedSeq++
		checked++
	}

	if expectedSeq <= to {
		return result(from, to, checked, &Violation{
			Sequence: expectedSeq,
			Reason:   fmt.Sprintf("chain gap: records %d through %d missing", expectedSeq, to),
		}), nil
	}

	return result(from, to, checked, nil), nil
}

func (r *repo) checkRecord(row chainRow, expectedPrevious string) *Violation {
	if row.PreviousHash != expectedPrevious {
		return &Violation{
			Sequence: row.Sequence,
			AuditID:  row.AuditID,
			Reason:   fmt.Sprintf("previous hash %s does not match predecessor content hash %s", row.PreviousHash, expectedPrevious),
		}
	}

	if !row.inputDigest.Valid || row.verdicts == nil || row.decision == nil {
		return &Violation{
			Sequence: row.Sequence,
			AuditID:  row.AuditID,
			Reason:   "precedent payload missing",
		}
	}

	var verdicts []critics.Verdict
	if err := json.Unmarshal(row.verdicts, &verdicts); err != nil {
		return &Violation{
			Sequence: row.Sequence,
			AuditID:  row.AuditID,
			Reason:   fmt.Sprintf("stored verdicts unreadable: %v", err),
		}
	}

	var dec decision.Decision
	if err := json.Unmarshal(row.decision, &dec); err != nil {
		return &Violation{
			Sequence: row.Sequence,
			AuditID:  row.AuditID,
			Reason:   fmt.Sprintf("stored decision unreadable: %v", err),
		}
	}

	recomputed, err := Content{
		InputDigest: row.inputDigest.String,
		Verdicts:    verdicts,
		Decision:    dec,
	}.Hash()
	if err != nil {
		return &Violation{
			Sequence: row.Sequence,
			AuditID:  row.AuditID,
			Reason:   fmt.Sprintf("hash recompute failed: %v", err),
		}
	}

	if recomputed != row.ContentHash {
		return &Violation{
			Sequence: row.Sequence,
			AuditID:  row.AuditID,
			Reason:   "content hash does not match stored payload",
		}
	}

	return nil
}

func result(from, to, checked int64, violation *Violation) *VerifyResult {
	return &VerifyResult{
		From:      from,
		To:        to,
		Checked:   checked,
		Verified:  violation == nil,
		Violation: violation,
	}
}
