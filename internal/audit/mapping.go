package audit

import (
	"database/sql"

	"github.com/JaimeStill/tribunal/pkg/query"
	"github.com/JaimeStill/tribunal/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_records", "a").
	Project("seq", "Sequence").
	Project("audit_id", "AuditID").
	Project("content_hash", "ContentHash").
	Project("previous_hash", "PreviousHash").
	Project("recorded_at", "RecordedAt")

// verifyProjection joins each chain record with its precedent payload so
// verification can recompute content hashes. LEFT JOIN keeps records whose
// payload row is missing visible as violations instead of hiding them.
var verifyProjection = query.
	NewProjectionMap("public", "audit_records", "a").
	Join("public", "precedents", "p", "LEFT JOIN", "p.audit_id = a.audit_id").
	Project("seq", "Sequence").
	Project("audit_id", "AuditID").
	Project("content_hash", "ContentHash").
	Project("previous_hash", "PreviousHash").
	Project("recorded_at", "RecordedAt").
	ProjectAs("p.input_digest", "InputDigest").
	ProjectAs("p.verdicts", "Verdicts").
	ProjectAs("p.decision", "Decision")

var chainOrder = query.SortField{Field: "Sequence"}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.Sequence,
		&r.AuditID,
		&r.ContentHash,
		&r.PreviousHash,
		&r.RecordedAt,
	)
	return r, err
}

// chainRow is a record joined with its stored payload for verification.
type chainRow struct {
	Record
	inputDigest sql.NullString
	verdicts    []byte
	decision    []byte
}

func scanChainRow(s repository.Scanner) (chainRow, error) {
	var row chainRow
	err := s.Scan(
		&row.Sequence,
		&row.AuditID,
		&row.ContentHash,
		&row.PreviousHash,
		&row.RecordedAt,
		&row.inputDigest,
		&row.verdicts,
		&row.decision,
	)
	return row, err
}
