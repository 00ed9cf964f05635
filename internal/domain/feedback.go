package domain

import "time"

// FeedbackEvent records a client reaction to a composed response. Events are
// appended, never mutated; the latest event per ticket governs the retry
// decision.
type FeedbackEvent struct {
	ID        string
	TicketID  string
	Satisfied bool
	Comment   string
	Attempt   int
	CreatedAt time.Time
}
