package precedents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/tribunal/internal/audit"
	"github.com/JaimeStill/tribunal/internal/decision"
	"github.com/JaimeStill/tribunal/internal/mirror"
	"github.com/JaimeStill/tribunal/pkg/pagination"
	"github.com/JaimeStill/tribunal/pkg/query"
	"github.com/JaimeStill/tribunal/pkg/repository"
)

type repo struct {
	db         *sql.DB
	chain      audit.System
	mirror     mirror.System
	fallback   *FallbackLog
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a precedent repository implementing the System interface.
// fallback may be nil when the dev-only fallback log is disabled.
func New(
	db *sql.DB,
	chain audit.System,
	mirrorSys mirror.System,
	fallback *FallbackLog,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		chain:      chain,
		mirror:     mirrorSys,
		fallback:   fallback,
		logger:     logger.With("system", "precedents"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Record persists one completed deliberation: the audit chain append and the
// precedent insert share a single transaction, so the entry is durable before
// it is acknowledged and nothing is considered committed on failure. The
// mirror is notified only after commit.
func (r *repo) Record(ctx context.Context, inputDigest string, dec decision.Decision) (*Entry, error) {
	auditID := audit.NewAuditID()

	verdictsJSON, err := json.Marshal(dec.Verdicts)
	if err != nil {
		return nil, fmt.Errorf("marshal verdicts: %w", err)
	}
	decisionJSON, err := json.Marshal(dec)
	if err != nil {
		return nil, fmt.Errorf("marshal decision: %w", err)
	}

	content := audit.Content{
		InputDigest: inputDigest,
		Verdicts:    dec.Verdicts,
		Decision:    dec,
	}

	entry, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		record, err := r.chain.AppendTx(ctx, tx, auditID, content)
		if err != nil {
			return Entry{}, err
		}

		e := Entry{
			AuditID:      auditID,
			InputDigest:  inputDigest,
			Profile:      dec.Profile,
			Outcome:      dec.Outcome,
			Verdicts:     dec.Verdicts,
			Decision:     dec,
			ContentHash:  record.ContentHash,
			PreviousHash: record.PreviousHash,
			CreatedAt:    record.RecordedAt,
		}

		err = repository.ExecExpectOne(
			ctx, tx,
			`INSERT INTO precedents (audit_id, input_digest, profile, outcome, verdicts, decision, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.AuditID, e.InputDigest, e.Profile, e.Outcome, verdictsJSON, decisionJSON, e.CreatedAt,
		)
		if err != nil {
			return Entry{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		return e, nil
	})
	if err != nil {
		r.logger.Error("precedent record failed", "audit_id", auditID, "error", err)
		r.recordFallback(auditID, inputDigest, dec, err)
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	if payload, err := json.Marshal(entry); err == nil {
		r.mirror.Notify(entry.AuditID, payload)
	} else {
		r.logger.Error("marshal mirror payload", "audit_id", entry.AuditID, "error", err)
	}

	return &entry, nil
}

// Get returns the entry recorded under auditID.
func (r *repo) Get(ctx context.Context, auditID string) (*Entry, error) {
	q, args := query.NewBuilder(projection).BuildSingle("AuditID", auditID)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

// Search returns a page of entries matching the filters. Every call re-executes
// against current state; results reflect entries committed at query time.
func (r *repo) Search(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "AuditID", "InputDigest")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count precedents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query precedents: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// Count returns the total number of stored entries.
func (r *repo) Count(ctx context.Context) (int, error) {
	countSQL, countArgs := query.NewBuilder(projection).BuildCount()
	return repository.QueryValue[int](ctx, r.db, countSQL, countArgs...)
}

// recordFallback writes the failed entry to the dev-only fallback log. Chain
// hashes are left empty: nothing was committed, so no chain position exists.
func (r *repo) recordFallback(auditID, inputDigest string, dec decision.Decision, cause error) {
	if r.fallback == nil {
		return
	}

	failed := Entry{
		AuditID:     auditID,
		InputDigest: inputDigest,
		Profile:     dec.Profile,
		Outcome:     dec.Outcome,
		Verdicts:    dec.Verdicts,
		Decision:    dec,
	}

	if err := r.fallback.Append(failed, cause.Error()); err != nil {
		r.logger.Error("fallback append failed", "audit_id", auditID, "error", err)
	}
}
