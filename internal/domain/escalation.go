package domain

import "time"

// EscalationReason enumerates why a ticket left the automated path.
type EscalationReason string

const (
	ReasonLowConfidence     EscalationReason = "LOW_CONFIDENCE"
	ReasonSensitiveData     EscalationReason = "SENSITIVE_DATA"
	ReasonNegativeSentiment EscalationReason = "NEGATIVE_SENTIMENT"
	ReasonMaxRetries        EscalationReason = "MAX_RETRIES"
	ReasonValidationReject  EscalationReason = "VALIDATION_REJECT"
)

// EscalationRecord is the immutable handoff record for human handling.
type EscalationRecord struct {
	ID        string
	TicketID  string
	Reason    EscalationReason
	CreatedAt time.Time
}
