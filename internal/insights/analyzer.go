// Package insights runs offline pattern analysis over closed and escalated
// tickets. It reads ticket state but never mutates it, and is not part of
// the triage critical path.
package insights

import (
	"context"
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

// hallucinationConfidence is the threshold above which a response that was
// later escalated on retry counts as a suspected hallucination: the system
// presented a solution confidently and the client still rejected it twice.
const hallucinationConfidence = 0.75

// Report aggregates escalation patterns to surface knowledge-base gaps.
type Report struct {
	GeneratedAt    time.Time                                           `json:"generated_at"`
	TotalClosed    int                                                 `json:"total_closed"`
	TotalEscalated int                                                 `json:"total_escalated"`
	ReasonCounts   map[domain.EscalationReason]int                     `json:"reason_counts"`
	ByCategory     map[domain.Category]map[domain.EscalationReason]int `json:"by_category"`
	KnowledgeGaps  []domain.Category                                   `json:"knowledge_gaps"`
	Hallucinations []string                                            `json:"suspected_hallucinations"`
}

// Analyzer builds reports from stored tickets and escalations.
type Analyzer struct {
	tickets     repository.TicketRepository
	escalations repository.EscalationRepository
}

// NewAnalyzer creates the analyzer.
func NewAnalyzer(tickets repository.TicketRepository, escalations repository.EscalationRepository) *Analyzer {
	return &Analyzer{tickets: tickets, escalations: escalations}
}

// BuildReport aggregates escalation reasons by category and flags suspected
// hallucinations: tickets that received a response with confidence at or
// above the threshold yet were escalated after exhausting retries.
func (a *Analyzer) BuildReport(ctx context.Context) (*Report, error) {
	report := &Report{
		GeneratedAt:  time.Now(),
		ReasonCounts: make(map[domain.EscalationReason]int),
		ByCategory:   make(map[domain.Category]map[domain.EscalationReason]int),
	}

	tickets, err := a.tickets.ListWithFilter(ctx, repository.TicketFilter{
		States: []domain.TriageState{domain.StateClosed, domain.StateEscalated},
	})
	if err != nil {
		return nil, err
	}

	lowConfidenceByCategory := make(map[domain.Category]int)

	for i := range tickets {
		ticket := &tickets[i]
		if ticket.State == domain.StateClosed {
			report.TotalClosed++
			continue
		}
		report.TotalEscalated++

		record, err := a.escalations.GetByTicket(ctx, ticket.ID)
		if err != nil {
			continue
		}

		report.ReasonCounts[record.Reason]++
		if _, ok := report.ByCategory[ticket.Category]; !ok {
			report.ByCategory[ticket.Category] = make(map[domain.EscalationReason]int)
		}
		report.ByCategory[ticket.Category][record.Reason]++

		if record.Reason == domain.ReasonLowConfidence {
			lowConfidenceByCategory[ticket.Category]++
		}
		if record.Reason == domain.ReasonMaxRetries && ticket.Confidence >= hallucinationConfidence {
			report.Hallucinations = append(report.Hallucinations, ticket.ID)
		}
	}

	// a category where low-confidence escalations dominate points at a
	// knowledge-base gap
	for category, count := range lowConfidenceByCategory {
		if category == "" {
			continue
		}
		total := 0
		for _, n := range report.ByCategory[category] {
			total += n
		}
		if total > 0 && count*2 >= total {
			report.KnowledgeGaps = append(report.KnowledgeGaps, category)
		}
	}

	return report, nil
}
