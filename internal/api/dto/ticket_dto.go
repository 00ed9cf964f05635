package dto

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// SubmitTicketRequest describes the intake payload.
type SubmitTicketRequest struct {
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	ClientContact string `json:"client_contact"`
}

// FeedbackRequest describes a client reaction to a response. The token binds
// the feedback to a ticket and attempt.
type FeedbackRequest struct {
	Token     string `json:"token"`
	Satisfied bool   `json:"satisfied"`
	Comment   string `json:"comment"`
}

// OutcomeResponse reports the result of a pipeline or feedback invocation.
type OutcomeResponse struct {
	TicketID      string  `json:"ticket_id"`
	Outcome       string  `json:"outcome"`
	Message       string  `json:"message"`
	EscalationID  string  `json:"escalation_id,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
	Attempt       int     `json:"attempt"`
	FeedbackToken string  `json:"feedback_token,omitempty"`
}

// TicketResponse is the read model for a ticket.
type TicketResponse struct {
	ID                string             `json:"id"`
	Subject           string             `json:"subject"`
	State             domain.TriageState `json:"state"`
	PriorityScore     int                `json:"priority_score"`
	Category          domain.Category    `json:"category,omitempty"`
	Tier              domain.Tier        `json:"tier,omitempty"`
	Keywords          []string           `json:"keywords,omitempty"`
	Confidence        float64            `json:"confidence"`
	SensitiveData     bool               `json:"sensitive_data"`
	NegativeSentiment bool               `json:"negative_sentiment"`
	ResponseText      string             `json:"response_text,omitempty"`
	EscalationID      *string            `json:"escalation_id,omitempty"`
	Attempts          int                `json:"attempts"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	ClosedAt          *time.Time         `json:"closed_at,omitempty"`
}
