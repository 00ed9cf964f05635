package insights

import (
	"context"
	"testing"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

func seedTicket(t *testing.T, tickets *repository.MemoryTicketRepository, ticket *domain.Ticket) {
	t.Helper()
	if err := tickets.Create(context.Background(), ticket); err != nil {
		t.Fatalf("seed ticket %s: %v", ticket.ID, err)
	}
}

func seedEscalation(t *testing.T, escalations *repository.MemoryEscalationRepository, ticketID string, reason domain.EscalationReason) {
	t.Helper()
	err := escalations.Create(context.Background(), &domain.EscalationRecord{
		ID:       "e-" + ticketID,
		TicketID: ticketID,
		Reason:   reason,
	})
	if err != nil {
		t.Fatalf("seed escalation for %s: %v", ticketID, err)
	}
}

func TestBuildReport(t *testing.T) {
	t.Parallel()

	tickets := repository.NewMemoryTicketRepository()
	escalations := repository.NewMemoryEscalationRepository()
	ctx := context.Background()

	seedTicket(t, tickets, &domain.Ticket{ID: "closed-1", State: domain.StateClosed, Category: domain.CategoryTechnical})
	seedTicket(t, tickets, &domain.Ticket{ID: "closed-2", State: domain.StateClosed, Category: domain.CategoryBilling})

	// billing: two low-confidence escalations out of two -> knowledge gap
	seedTicket(t, tickets, &domain.Ticket{ID: "esc-1", State: domain.StateEscalated, Category: domain.CategoryBilling})
	seedEscalation(t, escalations, "esc-1", domain.ReasonLowConfidence)
	seedTicket(t, tickets, &domain.Ticket{ID: "esc-2", State: domain.StateEscalated, Category: domain.CategoryBilling})
	seedEscalation(t, escalations, "esc-2", domain.ReasonLowConfidence)

	// technical: one low-confidence out of three -> no gap
	seedTicket(t, tickets, &domain.Ticket{ID: "esc-3", State: domain.StateEscalated, Category: domain.CategoryTechnical})
	seedEscalation(t, escalations, "esc-3", domain.ReasonLowConfidence)
	seedTicket(t, tickets, &domain.Ticket{ID: "esc-4", State: domain.StateEscalated, Category: domain.CategoryTechnical})
	seedEscalation(t, escalations, "esc-4", domain.ReasonSensitiveData)
	seedTicket(t, tickets, &domain.Ticket{
		ID:         "esc-5",
		State:      domain.StateEscalated,
		Category:   domain.CategoryTechnical,
		Confidence: 0.82,
	})
	seedEscalation(t, escalations, "esc-5", domain.ReasonMaxRetries)

	// a pipeline-stage ticket must not appear in the report at all
	seedTicket(t, tickets, &domain.Ticket{ID: "open-1", State: domain.StateAwaitingFeedback, Category: domain.CategoryTechnical})

	report, err := NewAnalyzer(tickets, escalations).BuildReport(ctx)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	if report.TotalClosed != 2 {
		t.Fatalf("total closed = %d, want 2", report.TotalClosed)
	}
	if report.TotalEscalated != 5 {
		t.Fatalf("total escalated = %d, want 5", report.TotalEscalated)
	}
	if got := report.ReasonCounts[domain.ReasonLowConfidence]; got != 3 {
		t.Fatalf("low confidence count = %d, want 3", got)
	}
	if got := report.ByCategory[domain.CategoryBilling][domain.ReasonLowConfidence]; got != 2 {
		t.Fatalf("billing low confidence = %d, want 2", got)
	}

	if len(report.KnowledgeGaps) != 1 || report.KnowledgeGaps[0] != domain.CategoryBilling {
		t.Fatalf("knowledge gaps = %v, want [billing]", report.KnowledgeGaps)
	}

	if len(report.Hallucinations) != 1 || report.Hallucinations[0] != "esc-5" {
		t.Fatalf("suspected hallucinations = %v, want [esc-5]", report.Hallucinations)
	}
}

func TestBuildReportEmptyStore(t *testing.T) {
	t.Parallel()

	report, err := NewAnalyzer(
		repository.NewMemoryTicketRepository(),
		repository.NewMemoryEscalationRepository(),
	).BuildReport(context.Background())
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.TotalClosed != 0 || report.TotalEscalated != 0 {
		t.Fatalf("empty store report = %+v", report)
	}
	if len(report.KnowledgeGaps) != 0 || len(report.Hallucinations) != 0 {
		t.Fatalf("empty store must flag nothing, got %+v", report)
	}
}
