package precedents

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/tribunal/pkg/query"
	"github.com/JaimeStill/tribunal/pkg/repository"
)

// Chain hashes live on audit_records; every read joins them back onto the
// entry so a PrecedentEntry is self-contained.
var projection = query.
	NewProjectionMap("public", "precedents", "p").
	Join("public", "audit_records", "a", "JOIN", "a.audit_id = p.audit_id").
	Project("audit_id", "AuditID").
	Project("input_digest", "InputDigest").
	Project("profile", "Profile").
	Project("outcome", "Outcome").
	Project("verdicts", "Verdicts").
	Project("decision", "Decision").
	ProjectAs("a.content_hash", "ContentHash").
	ProjectAs("a.previous_hash", "PreviousHash").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for precedent queries.
// Nil fields are ignored. From and To bound created_at inclusively.
type Filters struct {
	Outcome     *string    `json:"outcome,omitempty"`
	Profile     *string    `json:"profile,omitempty"`
	InputDigest *string    `json:"input_digest,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Outcome", f.Outcome).
		WhereEquals("Profile", f.Profile).
		WhereEquals("InputDigest", f.InputDigest).
		WhereGTE("CreatedAt", f.From).
		WhereLTE("CreatedAt", f.To)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Time bounds parse as RFC 3339.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if o := values.Get("outcome"); o != "" {
		f.Outcome = &o
	}
	if p := values.Get("profile"); p != "" {
		f.Profile = &p
	}
	if d := values.Get("input_digest"); d != "" {
		f.InputDigest = &d
	}
	if v := values.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &t
		}
	}
	if v := values.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &t
		}
	}

	return f
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	var verdictsRaw, decisionRaw []byte

	err := s.Scan(
		&e.AuditID,
		&e.InputDigest,
		&e.Profile,
		&e.Outcome,
		&verdictsRaw,
		&decisionRaw,
		&e.ContentHash,
		&e.PreviousHash,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	if len(verdictsRaw) > 0 {
		if err := json.Unmarshal(verdictsRaw, &e.Verdicts); err != nil {
			return e, fmt.Errorf("unmarshal verdicts: %w", err)
		}
	}
	if len(decisionRaw) > 0 {
		if err := json.Unmarshal(decisionRaw, &e.Decision); err != nil {
			return e, fmt.Errorf("unmarshal decision: %w", err)
		}
	}

	return e, nil
}
