package events

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketReceived  EventType = "ticket_received"
	EventTicketRejected  EventType = "ticket_rejected"
	EventTicketResponded EventType = "ticket_responded"
	EventTicketEscalated EventType = "ticket_escalated"
	EventTicketRetried   EventType = "ticket_retried"
	EventTicketClosed    EventType = "ticket_closed"
)

// Event represents a triage lifecycle event emitted by the orchestrator.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketRejectedPayload payload.
type TicketRejectedPayload struct {
	Note string `json:"note"`
}

// TicketRespondedPayload payload.
type TicketRespondedPayload struct {
	Category   domain.Category `json:"category"`
	Tier       domain.Tier     `json:"tier"`
	Confidence float64         `json:"confidence"`
	Attempt    int             `json:"attempt"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	EscalationID string                  `json:"escalation_id"`
	Reason       domain.EscalationReason `json:"reason"`
	Category     domain.Category         `json:"category,omitempty"`
	Tier         domain.Tier             `json:"tier,omitempty"`
}

// TicketRetriedPayload payload.
type TicketRetriedPayload struct {
	Attempt int    `json:"attempt"`
	Comment string `json:"comment,omitempty"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	Attempt int `json:"attempt"`
}
