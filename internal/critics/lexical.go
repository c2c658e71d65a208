package critics

import (
	"context"
	"fmt"
	"strings"
)

// Term sets for heuristic scoring. Matching is case-insensitive substring
// matching against the input.
var (
	uncertaintyTerms = []string{
		"uncertain", "not sure", "unknown", "unclear", "ambiguous",
		"may", "might", "could", "possibly", "perhaps",
	}

	lowConfidenceMarkers = []string{
		"not confident", "low confidence", "guess", "speculative", "estimate",
	}

	protectedClasses = []string{
		"race", "ethnicity", "gender", "sex", "sexual orientation", "religion",
		"faith", "disability", "age", "nationality", "origin", "immigration",
		"pregnancy", "veteran",
	}

	sensitiveTopics = []string{
		"health", "biometric", "genetic", "financial", "political", "union",
		"religious",
	}

	harmTerms = []string{
		"harm", "injury", "danger", "weapon", "exploit", "surveillance",
	}

	severityTerms = []string{
		"irreversible", "catastrophic", "lethal",
	}

	infeasibilityTerms = []string{
		"infeasible", "impractical", "impossible", "unbounded",
	}
)

// Lexical is a deterministic keyword-heuristic critic. It scores exactly one
// dimension, named by the critic itself, from term matches against the input.
// Identical input always produces an identical verdict apart from the
// evaluation timestamp, which makes it the default backend for development
// and tests.
type Lexical struct {
	name string
}

// NewLexical creates a lexical critic for the named dimension.
func NewLexical(name string) *Lexical {
	return &Lexical{name: name}
}

func (l *Lexical) Name() string {
	return l.name
}

func (l *Lexical) Evaluate(ctx context.Context, input string) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}

	lowered := strings.ToLower(input)
	score, rationale, flags := scoreDimension(l.name, lowered)

	return Verdict{
		Critic: l.name,
		Status: StatusOK,
		Assessments: map[string]Assessment{
			l.name: {Score: score, Rationale: rationale},
		},
		Flags:       flags,
		EvaluatedAt: Now(),
	}, nil
}

func scoreDimension(dimension, lowered string) (float64, string, []string) {
	switch dimension {
	case "rights":
		return scoreRights(lowered)
	case "fairness":
		return scoreFairness(lowered)
	case "risk":
		return scoreRisk(lowered)
	case "truth":
		return scoreTruth(lowered)
	case "pragmatics":
		return scorePragmatics(lowered)
	default:
		matched := matchTerms(lowered, uncertaintyTerms)
		score := clamp(0.75 - 0.05*float64(len(matched)))
		return score, describeMatches(dimension, matched), nil
	}
}

func scoreRights(lowered string) (float64, string, []string) {
	classes := matchTerms(lowered, protectedClasses)
	harms := matchTerms(lowered, harmTerms)

	score := 0.90 - 0.15*float64(len(classes)) - 0.10*float64(len(harms))

	var flags []string
	if len(classes) > 0 {
		flags = append(flags, "protected-class")
		if !strings.Contains(lowered, "consent") {
			score -= 0.05
			flags = append(flags, "consent-unverified")
		}
	}

	return clamp(score), describeMatches("rights", append(classes, harms...)), flags
}

func scoreFairness(lowered string) (float64, string, []string) {
	classes := matchTerms(lowered, protectedClasses)
	topics := matchTerms(lowered, sensitiveTopics)

	score := 0.85 - 0.10*float64(len(classes)) - 0.05*float64(len(topics))

	var flags []string
	if strings.Contains(lowered, "bias") || strings.Contains(lowered, "discriminat") {
		score -= 0.15
		flags = append(flags, "distributional-harm")
	}

	return clamp(score), describeMatches("fairness", append(classes, topics...)), flags
}

func scoreRisk(lowered string) (float64, string, []string) {
	harms := matchTerms(lowered, harmTerms)
	severe := matchTerms(lowered, severityTerms)
	topics := matchTerms(lowered, sensitiveTopics)

	score := 0.85 - 0.15*float64(len(harms)) - 0.20*float64(len(severe)) - 0.05*float64(len(topics))

	var flags []string
	if len(severe) > 0 {
		flags = append(flags, "high-severity")
	}

	return clamp(score), describeMatches("risk", append(append(harms, severe...), topics...)), flags
}

func scoreTruth(lowered string) (float64, string, []string) {
	uncertain := matchTerms(lowered, uncertaintyTerms)
	markers := matchTerms(lowered, lowConfidenceMarkers)

	score := 0.80 - 0.05*float64(len(uncertain)) - 0.07*float64(len(markers))

	return clamp(score), describeMatches("truth", append(uncertain, markers...)), nil
}

func scorePragmatics(lowered string) (float64, string, []string) {
	// longer, more concrete inputs read as more actionable
	lengthBonus := min(float64(len(lowered))/500.0*0.1, 0.15)
	uncertain := matchTerms(lowered, uncertaintyTerms)
	blockers := matchTerms(lowered, infeasibilityTerms)

	score := 0.40 + lengthBonus - 0.05*float64(len(uncertain)) - 0.15*float64(len(blockers))

	var flags []string
	if len(blockers) > 0 {
		flags = append(flags, "feasibility")
	}

	return clamp(score), describeMatches("pragmatics", append(uncertain, blockers...)), flags
}

func matchTerms(lowered string, terms []string) []string {
	var matched []string
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

func describeMatches(dimension string, matched []string) string {
	if len(matched) == 0 {
		return fmt.Sprintf("no %s-sensitive terms matched", dimension)
	}
	return fmt.Sprintf("matched %s terms: %s", dimension, strings.Join(matched, ", "))
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
