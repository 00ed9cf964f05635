package triage

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// ComposeResponse builds the outbound message from the retrieved solution.
// Pure formatting; the decision to respond was already made.
func ComposeResponse(ticket *domain.Ticket, solution string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nThank you for contacting support about %q.\n\n", strings.TrimSpace(ticket.Subject))
	b.WriteString("Based on similar cases, the following may resolve your issue:\n\n")
	b.WriteString(strings.TrimSpace(solution))
	b.WriteString("\n\nIf this does not resolve your issue, let us know and we will take another look.")
	return b.String()
}

// ComposeClarificationRequest builds the "needs more information" message
// returned when validation rejects a ticket.
func ComposeClarificationRequest(note string) string {
	return fmt.Sprintf(
		"We could not process your request as submitted (%s). "+
			"Please describe what you were doing, what you expected, and what happened instead.",
		note,
	)
}

// ComposeEscalationNotice builds the message returned when a ticket is
// handed to a human, carrying the tracking reference.
func ComposeEscalationNotice(escalationID string) string {
	return fmt.Sprintf(
		"Your request has been forwarded to our support team. "+
			"Reference: %s. You will hear from us shortly.",
		escalationID,
	)
}
