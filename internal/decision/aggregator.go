package decision

import (
	"slices"
	"strings"

	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/profiles"
)

// Aggregate combines verdicts under a compliance profile into a Decision.
//
// Per dimension, the minimum score across verdicts with status ok that scored
// the dimension is compared against the dimension policy: a minimum below the
// floor rejects the round outright; a minimum below the threshold triggers the
// dimension's mitigation. A dimension no verdict scored is failing, so its
// mitigation triggers and the round can never fully approve. Since floor never
// exceeds threshold, a rejected dimension also carries its mitigation.
//
// Output ordering is independent of verdict arrival order: minima and
// mitigations follow profile dimension order, and the carried verdicts are
// sorted by critic name.
func Aggregate(verdicts []critics.Verdict, profile profiles.Profile) Decision {
	sorted := slices.Clone(verdicts)
	slices.SortStableFunc(sorted, func(a, b critics.Verdict) int {
		return strings.Compare(a.Critic, b.Critic)
	})

	dimensions := profile.Dimensions()
	minima := make([]DimensionMinimum, 0, len(dimensions))
	mitigations := make([]Mitigation, 0)

	rejected := false
	mitigated := false

	for _, dimension := range dimensions {
		policy, _ := profile.Policy(dimension)
		minimum := dimensionMinimum(dimension, sorted)
		minima = append(minima, minimum)

		if minimum.Score == nil {
			// absence of evidence is never a pass
			mitigated = true
			mitigations = append(mitigations, Mitigation{
				Dimension: dimension,
				Threshold: policy.Threshold,
				Action:    policy.Mitigation,
			})
			continue
		}

		score := *minimum.Score
		if score < policy.Floor {
			rejected = true
		}
		if score < policy.Threshold {
			mitigated = true
			observed := score
			mitigations = append(mitigations, Mitigation{
				Dimension: dimension,
				Threshold: policy.Threshold,
				Observed:  &observed,
				Action:    policy.Mitigation,
			})
		}
	}

	outcome := OutcomeApprove
	switch {
	case rejected:
		outcome = OutcomeReject
	case mitigated:
		outcome = OutcomeApproveWithMitigation
	}

	if len(mitigations) == 0 {
		mitigations = nil
	}

	return Decision{
		Outcome:     outcome,
		Profile:     profile.Name(),
		Minima:      minima,
		Mitigations: mitigations,
		Verdicts:    sorted,
	}
}

func dimensionMinimum(dimension string, verdicts []critics.Verdict) DimensionMinimum {
	minimum := DimensionMinimum{Dimension: dimension}

	for _, verdict := range verdicts {
		if !verdict.Scored() {
			continue
		}

		assessment, ok := verdict.Assessments[dimension]
		if !ok {
			continue
		}

		minimum.Scored++
		if minimum.Score == nil || assessment.Score < *minimum.Score {
			score := assessment.Score
			minimum.Score = &score
		}
	}

	return minimum
}
