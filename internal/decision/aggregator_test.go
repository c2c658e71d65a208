package decision_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/decision"
	"github.com/JaimeStill/tribunal/internal/profiles"
)

var evaluatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testProfile(t *testing.T) profiles.Profile {
	t.Helper()

	profile, err := profiles.New(
		"test",
		[]string{"rights", "risk", "truth"},
		map[string]profiles.DimensionPolicy{
			"rights": {Threshold: 0.5, Floor: 0.25, Mitigation: "escalate for review"},
			"risk":   {Threshold: 0.6, Floor: 0.30, Mitigation: "require risk acceptance"},
			"truth":  {Threshold: 0.7, Floor: 0.35, Mitigation: "verify claims"},
		},
	)
	if err != nil {
		t.Fatalf("profiles.New() error = %v", err)
	}
	return profile
}

func verdict(critic string, scores map[string]float64) critics.Verdict {
	assessments := make(map[string]critics.Assessment, len(scores))
	for dimension, score := range scores {
		assessments[dimension] = critics.Assessment{Score: score}
	}
	return critics.Verdict{
		Critic:      critic,
		Status:      critics.StatusOK,
		Assessments: assessments,
		EvaluatedAt: evaluatedAt,
	}
}

func fullVerdicts(rights, risk, truth float64) []critics.Verdict {
	return []critics.Verdict{
		verdict("rights", map[string]float64{"rights": rights}),
		verdict("risk", map[string]float64{"risk": risk}),
		verdict("truth", map[string]float64{"truth": truth}),
	}
}

func TestAggregateAllAboveThresholds(t *testing.T) {
	profile := testProfile(t)

	dec := decision.Aggregate(fullVerdicts(0.9, 0.9, 0.9), profile)

	if dec.Outcome != decision.OutcomeApprove {
		t.Fatalf("Outcome = %q, want %q", dec.Outcome, decision.OutcomeApprove)
	}
	if dec.Mitigations != nil {
		t.Errorf("Mitigations = %v, want none", dec.Mitigations)
	}
	if len(dec.Minima) != 3 {
		t.Errorf("Minima length = %d, want 3", len(dec.Minima))
	}
	if len(dec.Verdicts) != 3 {
		t.Errorf("Verdicts length = %d, want 3", len(dec.Verdicts))
	}
}

func TestAggregateBelowThresholdMitigates(t *testing.T) {
	profile := testProfile(t)

	// risk 0.45 is below threshold 0.6 but above floor 0.3
	dec := decision.Aggregate(fullVerdicts(0.9, 0.45, 0.9), profile)

	if dec.Outcome != decision.OutcomeApproveWithMitigation {
		t.Fatalf("Outcome = %q, want %q", dec.Outcome, decision.OutcomeApproveWithMitigation)
	}
	if len(dec.Mitigations) != 1 {
		t.Fatalf("Mitigations length = %d, want 1", len(dec.Mitigations))
	}

	m := dec.Mitigations[0]
	if m.Dimension != "risk" {
		t.Errorf("Mitigation dimension = %q, want %q", m.Dimension, "risk")
	}
	if m.Action != "require risk acceptance" {
		t.Errorf("Mitigation action = %q", m.Action)
	}
	if m.Observed == nil || *m.Observed != 0.45 {
		t.Errorf("Mitigation observed = %v, want 0.45", m.Observed)
	}
}

func TestAggregateBelowFloorRejects(t *testing.T) {
	profile := testProfile(t)

	// truth 0.1 is below floor 0.35; other dimensions are clean
	dec := decision.Aggregate(fullVerdicts(0.9, 0.9, 0.1), profile)

	if dec.Outcome != decision.OutcomeReject {
		t.Fatalf("Outcome = %q, want %q", dec.Outcome, decision.OutcomeReject)
	}
	if len(dec.Mitigations) != 1 || dec.Mitigations[0].Dimension != "truth" {
		t.Errorf("Mitigations = %v, want truth mitigation", dec.Mitigations)
	}
}

func TestAggregateMinimumAcrossCritics(t *testing.T) {
	profile := testProfile(t)

	// two critics score risk; the lower score drives the outcome
	verdicts := []critics.Verdict{
		verdict("a", map[string]float64{"rights": 0.9, "risk": 0.9, "truth": 0.9}),
		verdict("b", map[string]float64{"risk": 0.2}),
	}

	dec := decision.Aggregate(verdicts, profile)

	if dec.Outcome != decision.OutcomeReject {
		t.Fatalf("Outcome = %q, want %q", dec.Outcome, decision.OutcomeReject)
	}

	for _, minimum := range dec.Minima {
		if minimum.Dimension != "risk" {
			continue
		}
		if minimum.Score == nil || *minimum.Score != 0.2 {
			t.Errorf("risk minimum = %v, want 0.2", minimum.Score)
		}
		if minimum.Scored != 2 {
			t.Errorf("risk scored count = %d, want 2", minimum.Scored)
		}
	}
}

func TestAggregateUnscoredDimensionNeverApproves(t *testing.T) {
	profile := testProfile(t)

	// nothing scores truth
	verdicts := []critics.Verdict{
		verdict("rights", map[string]float64{"rights": 0.9}),
		verdict("risk", map[string]float64{"risk": 0.9}),
	}

	dec := decision.Aggregate(verdicts, profile)

	if dec.Outcome == decision.OutcomeApprove {
		t.Fatal("unscored dimension produced approve")
	}
	if len(dec.Mitigations) != 1 {
		t.Fatalf("Mitigations length = %d, want 1", len(dec.Mitigations))
	}
	if dec.Mitigations[0].Dimension != "truth" {
		t.Errorf("Mitigation dimension = %q, want %q", dec.Mitigations[0].Dimension, "truth")
	}
	if dec.Mitigations[0].Observed != nil {
		t.Errorf("Mitigation observed = %v, want nil", dec.Mitigations[0].Observed)
	}
}

func TestAggregateSyntheticVerdictsExcludedFromScoring(t *testing.T) {
	profile := testProfile(t)

	verdicts := append(
		fullVerdicts(0.9, 0.9, 0.9),
		critics.Verdict{Critic: "late", Status: critics.StatusTimedOut, EvaluatedAt: evaluatedAt},
		critics.Verdict{Critic: "broken", Status: critics.StatusErrored, EvaluatedAt: evaluatedAt},
	)

	dec := decision.Aggregate(verdicts, profile)

	if dec.Outcome != decision.OutcomeApprove {
		t.Fatalf("Outcome = %q, want %q", dec.Outcome, decision.OutcomeApprove)
	}
	if len(dec.Verdicts) != 5 {
		t.Errorf("Verdicts length = %d, want 5 (synthetic verdicts recorded)", len(dec.Verdicts))
	}
}

func TestAggregateOrderInvariant(t *testing.T) {
	profile := testProfile(t)

	forward := []critics.Verdict{
		verdict("a", map[string]float64{"rights": 0.9, "risk": 0.4}),
		verdict("b", map[string]float64{"risk": 0.7, "truth": 0.8}),
		verdict("c", map[string]float64{"truth": 0.3}),
	}
	reversed := []critics.Verdict{forward[2], forward[1], forward[0]}

	first, err := json.Marshal(decision.Aggregate(forward, profile))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(decision.Aggregate(reversed, profile))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("arrival order changed the decision:\n%s\n%s", first, second)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	profile := testProfile(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("repeated aggregation is byte-identical", prop.ForAll(
		func(rights, risk, truth []float64) bool {
			verdicts := make([]critics.Verdict, 0, len(rights)+len(risk)+len(truth))
			for i, score := range rights {
				verdicts = append(verdicts, verdict(fmt.Sprintf("rights-%d", i), map[string]float64{"rights": score}))
			}
			for i, score := range risk {
				verdicts = append(verdicts, verdict(fmt.Sprintf("risk-%d", i), map[string]float64{"risk": score}))
			}
			for i, score := range truth {
				verdicts = append(verdicts, verdict(fmt.Sprintf("truth-%d", i), map[string]float64{"truth": score}))
			}

			first, err := json.Marshal(decision.Aggregate(verdicts, profile))
			if err != nil {
				return false
			}
			second, err := json.Marshal(decision.Aggregate(verdicts, profile))
			if err != nil {
				return false
			}
			return string(first) == string(second)
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.SliceOf(gen.Float64Range(0, 1)),
		gen.SliceOf(gen.Float64Range(0, 1)),
	))

	properties.Property("reject implies a dimension below its floor", prop.ForAll(
		func(rights, risk, truth float64) bool {
			dec := decision.Aggregate(fullVerdicts(rights, risk, truth), profile)
			if dec.Outcome != decision.OutcomeReject {
				return true
			}
			return rights < 0.25 || risk < 0.30 || truth < 0.35
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
