package triage

import (
	"testing"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func awaitingTicket(attempts int) *domain.Ticket {
	return &domain.Ticket{
		ID:          "t-1",
		Subject:     "login broken",
		Description: "cannot login, error 403 after my password reset yesterday",
		State:       domain.StateAwaitingFeedback,
		Attempts:    attempts,
	}
}

func TestApplyFeedbackSatisfied(t *testing.T) {
	t.Parallel()

	ticket := awaitingTicket(0)
	transition, err := ApplyFeedback(ticket, &domain.FeedbackEvent{Satisfied: true}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transition != TransitionClosed {
		t.Fatalf("transition = %s, want %s", transition, TransitionClosed)
	}
	if ticket.State != domain.StateClosed {
		t.Fatalf("state = %s, want %s", ticket.State, domain.StateClosed)
	}
	if ticket.ClosedAt == nil {
		t.Fatal("ClosedAt must be stamped on close")
	}
}

func TestApplyFeedbackRetry(t *testing.T) {
	t.Parallel()

	ticket := awaitingTicket(0)
	event := &domain.FeedbackEvent{Satisfied: false, Comment: "  still seeing 403 on mobile  "}
	transition, err := ApplyFeedback(ticket, event, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transition != TransitionRetrying {
		t.Fatalf("transition = %s, want %s", transition, TransitionRetrying)
	}
	if ticket.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", ticket.Attempts)
	}
	if len(ticket.Clarifications) != 1 || ticket.Clarifications[0] != "still seeing 403 on mobile" {
		t.Fatalf("clarifications = %v, want trimmed comment appended", ticket.Clarifications)
	}
	if ticket.State != domain.StateRetrying {
		t.Fatalf("state = %s, want %s", ticket.State, domain.StateRetrying)
	}
}

func TestApplyFeedbackExhaustedEscalates(t *testing.T) {
	t.Parallel()

	ticket := awaitingTicket(2)
	transition, err := ApplyFeedback(ticket, &domain.FeedbackEvent{Satisfied: false, Comment: "nope"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transition != TransitionEscalated {
		t.Fatalf("transition = %s, want %s", transition, TransitionEscalated)
	}
	// escalation itself is the orchestrator's job; the controller must not
	// touch the counter or the clarifications here
	if ticket.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2 (never decremented, never incremented past max)", ticket.Attempts)
	}
	if len(ticket.Clarifications) != 0 {
		t.Fatalf("clarifications = %v, want none", ticket.Clarifications)
	}
}

func TestApplyFeedbackTerminalRejected(t *testing.T) {
	t.Parallel()

	for _, state := range []domain.TriageState{domain.StateClosed, domain.StateEscalated, domain.StateNeedsInfo} {
		ticket := awaitingTicket(0)
		ticket.State = state
		if _, err := ApplyFeedback(ticket, &domain.FeedbackEvent{Satisfied: true}, 2); err == nil {
			t.Fatalf("feedback on terminal state %s must error", state)
		}
	}
}

func TestApplyFeedbackWrongStateRejected(t *testing.T) {
	t.Parallel()

	ticket := awaitingTicket(0)
	ticket.State = domain.StateScoring
	if _, err := ApplyFeedback(ticket, &domain.FeedbackEvent{Satisfied: true}, 2); err == nil {
		t.Fatal("feedback outside awaiting_feedback must error")
	}
}

func TestApplyFeedbackEmptyCommentNotAppended(t *testing.T) {
	t.Parallel()

	ticket := awaitingTicket(0)
	if _, err := ApplyFeedback(ticket, &domain.FeedbackEvent{Satisfied: false, Comment: "   "}, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ticket.Clarifications) != 0 {
		t.Fatalf("blank comment must not be appended, got %v", ticket.Clarifications)
	}
}
