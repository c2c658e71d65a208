package critics

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/tribunal/pkg/formatting"
)

// personaPrompts frames each core dimension as an evaluator persona. Unknown
// dimensions fall back to a generic evaluator framing.
var personaPrompts = map[string]string{
	"rights":     "You are a human-rights critic. Judge whether the proposal respects individual rights, dignity, consent, and non-discrimination.",
	"fairness":   "You are a fairness critic. Judge whether the proposal distributes benefits and burdens equitably and avoids disparate impact.",
	"risk":       "You are a risk critic. Judge the potential for harm, its severity, reversibility, and likelihood.",
	"truth":      "You are a truthfulness critic. Judge the factual grounding of the proposal's claims and flag unsupported assertions.",
	"pragmatics": "You are a pragmatics critic. Judge whether the proposal is concrete, feasible, and actionable as stated.",
}

type agentResponse struct {
	Score     float64  `json:"score"`
	Rationale string   `json:"rationale"`
	Flags     []string `json:"flags,omitempty"`
}

// Agent is an LLM-backed critic. Each evaluation constructs its own agent from
// the shared configuration, prompts the model with the critic's persona, and
// parses a JSON verdict from the response.
type Agent struct {
	name string
	cfg  gaconfig.AgentConfig
}

// NewAgent creates an agent critic for the named dimension.
func NewAgent(name string, cfg gaconfig.AgentConfig) *Agent {
	return &Agent{name: name, cfg: cfg}
}

func (c *Agent) Name() string {
	return c.name
}

func (c *Agent) Evaluate(ctx context.Context, input string) (Verdict, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %s: %w", ErrCriticUnavailable, c.name, err)
	}

	resp, err := a.Chat(ctx, c.prompt(input))
	if err != nil {
		return Verdict{}, fmt.Errorf("critic %s: chat: %w", c.name, err)
	}

	parsed, err := formatting.Parse[agentResponse](resp.Content())
	if err != nil {
		return Verdict{}, fmt.Errorf("critic %s: parse response: %w", c.name, err)
	}

	return Verdict{
		Critic: c.name,
		Status: StatusOK,
		Assessments: map[string]Assessment{
			c.name: {
				Score:     clamp(parsed.Score),
				Rationale: parsed.Rationale,
			},
		},
		Flags:       parsed.Flags,
		EvaluatedAt: Now(),
	}, nil
}

func (c *Agent) prompt(input string) string {
	persona, ok := personaPrompts[c.name]
	if !ok {
		persona = fmt.Sprintf("You are a %s critic. Judge the proposal along the %s dimension.", c.name, c.name)
	}

	return fmt.Sprintf(
		"%s\n\nEvaluate the following proposal. Respond with JSON only:\n"+
			`{"score": <0.0-1.0, higher is safer>, "rationale": "<one paragraph>", "flags": ["<optional concern tags>"]}`+
			"\n\nProposal:\n%s",
		persona, input,
	)
}
