package deliberation

import (
	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/decision"
)

// Event names emitted over a deliberation stream. decision-ready and error
// are terminal; the session ends after one of them.
const (
	EventCriticResponded = "critic-responded"
	EventRoundComplete   = "round-complete"
	EventDecisionReady   = "decision-ready"
	EventError           = "error"
)

// Event is one frame of a deliberation stream. Fields are populated per
// event name; absent fields are omitted from the encoded frame.
type Event struct {
	Event     string             `json:"event"`
	Critic    string             `json:"critic,omitempty"`
	Status    critics.Status     `json:"status,omitempty"`
	Verdicts  int                `json:"verdicts,omitempty"`
	Decision  *decision.Decision `json:"decision,omitempty"`
	AuditID   string             `json:"auditId,omitempty"`
	AuditHash string             `json:"auditHash,omitempty"`
	Error     string             `json:"error,omitempty"`
	Code      string             `json:"code,omitempty"`
}

// CriticResponded reports one critic's verdict status as it arrives.
func CriticResponded(critic string, status critics.Status) Event {
	return Event{
		Event:  EventCriticResponded,
		Critic: critic,
		Status: status,
	}
}

// RoundComplete reports that collection closed with the given verdict count.
func RoundComplete(verdicts int) Event {
	return Event{
		Event:    EventRoundComplete,
		Verdicts: verdicts,
	}
}

// DecisionReady is the terminal event of a successful round.
func DecisionReady(dec decision.Decision, auditID, auditHash string) Event {
	return Event{
		Event:     EventDecisionReady,
		Decision:  &dec,
		AuditID:   auditID,
		AuditHash: auditHash,
	}
}

// ErrorEvent is the terminal event of a failed round.
func ErrorEvent(err error) Event {
	return Event{
		Event: EventError,
		Error: err.Error(),
		Code:  ErrorCode(err),
	}
}
