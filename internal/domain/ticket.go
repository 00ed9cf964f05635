package domain

import "time"

// TriageState enumerates pipeline states for a ticket.
type TriageState string

const (
	StateReceived         TriageState = "RECEIVED"
	StateValidating       TriageState = "VALIDATING"
	StateScoring          TriageState = "SCORING"
	StateAnalyzing        TriageState = "ANALYZING"
	StateClassifying      TriageState = "CLASSIFYING"
	StateRetrieving       TriageState = "RETRIEVING"
	StateEvaluating       TriageState = "EVALUATING"
	StateResponding       TriageState = "RESPONDING"
	StateEscalating       TriageState = "ESCALATING"
	StateAwaitingFeedback TriageState = "AWAITING_FEEDBACK"
	StateRetrying         TriageState = "RETRYING"
	StateNeedsInfo        TriageState = "NEEDS_INFO"
	StateClosed           TriageState = "CLOSED"
	StateEscalated        TriageState = "ESCALATED"
)

// Terminal reports whether no further pipeline stage may run for the state.
func (s TriageState) Terminal() bool {
	return s == StateClosed || s == StateEscalated || s == StateNeedsInfo
}

// Category enumerates ticket subject areas.
type Category string

const (
	CategoryTechnical      Category = "TECHNICAL"
	CategoryBilling        Category = "BILLING"
	CategoryAuthentication Category = "AUTHENTICATION"
	CategoryOther          Category = "OTHER"
)

// Tier enumerates operational treatment levels, distinct from the numeric
// priority score.
type Tier string

const (
	TierStandard Tier = "STANDARD"
	TierPriority Tier = "PRIORITY"
	TierUrgent   Tier = "URGENT"
)

// Ticket is the aggregate for triage work. Derived fields are written once
// per pipeline stage; once EscalationID is set the ticket is terminal and
// only read-only analysis may touch it.
type Ticket struct {
	ID            string
	Subject       string
	Description   string
	ClientContact string

	State TriageState

	// Derived by the pipeline.
	PriorityScore       int
	Category            Category
	Tier                Tier
	Keywords            []string
	SummaryQuery        string
	SolutionText        string
	RetrievalConfidence float64
	Confidence          float64
	SensitiveData       bool
	NegativeSentiment   bool
	ResponseText        string
	ValidationNote      string

	// Clarifications carries feedback comments appended between attempts so
	// re-analysis can use them.
	Clarifications []string

	EscalationID *string
	Attempts     int

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}

// Escalated reports whether the ticket has been handed to a human.
func (t *Ticket) Escalated() bool {
	return t.EscalationID != nil
}

// FullText returns the searchable text of the ticket, including any
// clarifications gathered from feedback.
func (t *Ticket) FullText() string {
	text := t.Subject + " " + t.Description
	for _, c := range t.Clarifications {
		text += " " + c
	}
	return text
}
