package audit_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/tribunal/internal/audit"
	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/decision"
)

func testContent() audit.Content {
	score := 0.8
	return audit.Content{
		InputDigest: audit.InputDigest("reduce transit fares for seniors"),
		Verdicts: []critics.Verdict{
			{
				Critic: "rights",
				Status: critics.StatusOK,
				Assessments: map[string]critics.Assessment{
					"rights": {Score: 0.8, Rationale: "no rights concerns"},
				},
				EvaluatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		Decision: decision.Decision{
			Outcome: decision.OutcomeApprove,
			Profile: "default",
			Minima: []decision.DimensionMinimum{
				{Dimension: "rights", Score: &score, Scored: 1},
			},
		},
	}
}

func TestContentHashDeterministic(t *testing.T) {
	content := testContent()

	first, err := content.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := content.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if first != second {
		t.Errorf("repeated hashing differs: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "sha256:") {
		t.Errorf("Hash() = %q, want sha256: prefix", first)
	}
}

func TestContentHashSensitivity(t *testing.T) {
	base := testContent()
	baseHash, err := base.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	changed := testContent()
	changed.Decision.Outcome = decision.OutcomeReject
	changedHash, err := changed.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if baseHash == changedHash {
		t.Error("hash unchanged after decision mutation")
	}

	digested := testContent()
	digested.InputDigest = audit.InputDigest("different input")
	digestedHash, err := digested.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if baseHash == digestedHash {
		t.Error("hash unchanged after input digest mutation")
	}
}

func TestInputDigest(t *testing.T) {
	first := audit.InputDigest("same input")
	second := audit.InputDigest("same input")
	other := audit.InputDigest("other input")

	if first != second {
		t.Errorf("identical inputs digest differently: %q vs %q", first, second)
	}
	if first == other {
		t.Error("distinct inputs share a digest")
	}
	if !strings.HasPrefix(first, "sha256:") {
		t.Errorf("InputDigest() = %q, want sha256: prefix", first)
	}
}

func TestNewAuditID(t *testing.T) {
	first := audit.NewAuditID()
	second := audit.NewAuditID()

	if !strings.HasPrefix(first, "AUD-") {
		t.Errorf("NewAuditID() = %q, want AUD- prefix", first)
	}
	if first == second {
		t.Error("audit ids collide")
	}
}
