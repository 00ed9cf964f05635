package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Transition is the feedback loop controller's decision for a ticket.
type Transition string

const (
	TransitionClosed    Transition = "closed"
	TransitionRetrying  Transition = "retrying"
	TransitionEscalated Transition = "escalated"
)

// ApplyFeedback drives the awaiting_feedback state machine for one feedback
// event and mutates the ticket accordingly:
//
//   - satisfied                      -> closed (terminal)
//   - unsatisfied, attempts < max    -> retrying, attempt counter incremented,
//     comment appended as clarification
//   - unsatisfied, attempts >= max   -> escalated (max_retries), no re-run
//
// The attempt counter never decreases, and a ticket in a terminal state is
// rejected before any mutation. The max-attempts bound is enforced here, in
// one place, rather than through recursion depth anywhere else.
func ApplyFeedback(ticket *domain.Ticket, event *domain.FeedbackEvent, maxAttempts int) (Transition, error) {
	if ticket.State.Terminal() {
		return "", fmt.Errorf("ticket %s is terminal in state %s", ticket.ID, ticket.State)
	}
	if ticket.State != domain.StateAwaitingFeedback {
		return "", fmt.Errorf("ticket %s is not awaiting feedback (state %s)", ticket.ID, ticket.State)
	}

	if event.Satisfied {
		now := time.Now()
		ticket.State = domain.StateClosed
		ticket.ClosedAt = &now
		return TransitionClosed, nil
	}

	if ticket.Attempts < maxAttempts {
		ticket.Attempts++
		if comment := strings.TrimSpace(event.Comment); comment != "" {
			ticket.Clarifications = append(ticket.Clarifications, comment)
		}
		ticket.State = domain.StateRetrying
		return TransitionRetrying, nil
	}

	return TransitionEscalated, nil
}
