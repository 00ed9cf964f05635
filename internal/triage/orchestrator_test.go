package triage

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/retrieval"
)

// stubRetriever returns a fixed result and counts pipeline runs.
type stubRetriever struct {
	result retrieval.Result
	calls  int
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) retrieval.Result {
	s.calls++
	return s.result
}

type orchestratorFixture struct {
	orchestrator *Orchestrator
	tickets      *repository.MemoryTicketRepository
	escalations  *repository.MemoryEscalationRepository
	feedback     *repository.MemoryFeedbackRepository
	retriever    *stubRetriever
}

func newFixture(t *testing.T, result retrieval.Result) *orchestratorFixture {
	t.Helper()

	tickets := repository.NewMemoryTicketRepository()
	escalations := repository.NewMemoryEscalationRepository()
	feedback := repository.NewMemoryFeedbackRepository()
	ret := &stubRetriever{result: result}
	logger := zap.NewNop()

	orchestrator := NewOrchestrator(Dependencies{
		TicketRepo:    tickets,
		FeedbackRepo:  feedback,
		Retriever:     ret,
		EscalationMgr: NewEscalationManager(escalations, logger),
		Logger:        logger,
	}, DefaultConfig())

	return &orchestratorFixture{
		orchestrator: orchestrator,
		tickets:      tickets,
		escalations:  escalations,
		feedback:     feedback,
		retriever:    ret,
	}
}

func (f *orchestratorFixture) submit(t *testing.T, subject, description string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		ID:          "t-" + strings.ReplaceAll(strings.ToLower(t.Name()), "/", "-"),
		Subject:     subject,
		Description: description,
		State:       domain.StateReceived,
	}
	if err := f.tickets.Create(context.Background(), ticket); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	return ticket
}

func goodRetrieval() retrieval.Result {
	snippets := []retrieval.Snippet{
		{Text: "Clear your browser cache and retry the password reset link.", Similarity: 0.8},
		{Text: "A 403 after reset usually means the old session is still cached.", Similarity: 0.7},
	}
	return retrieval.Result{
		Snippets:   snippets,
		Confidence: retrieval.AggregateConfidence(snippets, 5),
	}
}

func TestProcessTicketResponds(t *testing.T) {
	t.Parallel()

	f := newFixture(t, goodRetrieval())
	ticket := f.submit(t, "Login problem", "Cannot login, error 403 after password reset")

	outcome, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}
	if outcome.Kind != OutcomeResponded {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeResponded)
	}
	if outcome.Message == "" {
		t.Fatal("responded outcome must carry the composed message")
	}

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.State != domain.StateAwaitingFeedback {
		t.Fatalf("state = %s, want %s", stored.State, domain.StateAwaitingFeedback)
	}
	if stored.PriorityScore != 43 {
		t.Fatalf("priority score = %d, want 43", stored.PriorityScore)
	}
	if stored.Category != domain.CategoryAuthentication {
		t.Fatalf("category = %s, want %s", stored.Category, domain.CategoryAuthentication)
	}
	if stored.Tier != domain.TierPriority {
		t.Fatalf("tier = %s, want %s", stored.Tier, domain.TierPriority)
	}
	if stored.Confidence < 0.60 {
		t.Fatalf("confidence = %v, expected at or above the respond threshold", stored.Confidence)
	}
	if stored.SolutionText == "" {
		t.Fatal("best snippet must be recorded as the solution")
	}
}

func TestProcessTicketEmptyRetrievalEscalates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, retrieval.Result{})
	ticket := f.submit(t, "Login problem", "Cannot login, error 403 after password reset")

	outcome, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}
	if outcome.Kind != OutcomeEscalated {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeEscalated)
	}
	if outcome.EscalationID == "" {
		t.Fatal("escalated outcome must carry the escalation id")
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.State != domain.StateEscalated {
		t.Fatalf("state = %s, want %s", stored.State, domain.StateEscalated)
	}

	record, err := f.escalations.GetByTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetByTicket: %v", err)
	}
	if record.Reason != domain.ReasonLowConfidence {
		t.Fatalf("reason = %s, want %s", record.Reason, domain.ReasonLowConfidence)
	}
	if record.ID != *stored.EscalationID {
		t.Fatalf("record id %s != ticket escalation id %s", record.ID, *stored.EscalationID)
	}
}

func TestProcessTicketVagueNeedsInfo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, goodRetrieval())
	ticket := f.submit(t, "Help", "it's broken")

	outcome, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}
	if outcome.Kind != OutcomeNeedsInfo {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeNeedsInfo)
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.State != domain.StateNeedsInfo {
		t.Fatalf("state = %s, want %s", stored.State, domain.StateNeedsInfo)
	}
	// validation halts the pipeline before scoring and classification
	if stored.PriorityScore != 0 || stored.Category != "" {
		t.Fatalf("rejected ticket must carry no derived fields, got score %d category %q",
			stored.PriorityScore, stored.Category)
	}
	if f.retriever.calls != 0 {
		t.Fatalf("retrieval must not run for rejected tickets, got %d calls", f.retriever.calls)
	}
}

func TestProcessTicketSensitiveDataEscalates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, goodRetrieval())
	ticket := f.submit(t, "Billing problem", "I was charged twice on my invoice, card 4532-1234-5678-9999")

	outcome, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}
	if outcome.Kind != OutcomeEscalated {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeEscalated)
	}

	record, err := f.escalations.GetByTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetByTicket: %v", err)
	}
	if record.Reason != domain.ReasonSensitiveData {
		t.Fatalf("reason = %s, want %s", record.Reason, domain.ReasonSensitiveData)
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if !stored.SensitiveData {
		t.Fatal("sensitive data flag must be stamped on the ticket")
	}
}

func TestProcessTicketTerminalConflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t, retrieval.Result{})
	ticket := f.submit(t, "Login problem", "Cannot login, error 403 after password reset")

	if _, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID); err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}
	// the empty-retrieval run escalated; a second run must refuse
	if _, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID); err == nil {
		t.Fatal("re-running a terminal ticket must fail")
	}
}

func TestProcessFeedbackSatisfiedCloses(t *testing.T) {
	t.Parallel()

	f := newFixture(t, goodRetrieval())
	ticket := f.submit(t, "Login problem", "Cannot login, error 403 after password reset")

	if _, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID); err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}

	outcome, err := f.orchestrator.ProcessFeedback(context.Background(), ticket.ID, FeedbackInput{Satisfied: true})
	if err != nil {
		t.Fatalf("ProcessFeedback: %v", err)
	}
	if outcome.Kind != OutcomeClosed {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeClosed)
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.State != domain.StateClosed || stored.ClosedAt == nil {
		t.Fatalf("ticket not closed: state %s closedAt %v", stored.State, stored.ClosedAt)
	}

	eventsStored, err := f.feedback.ListByTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(eventsStored) != 1 || !eventsStored[0].Satisfied {
		t.Fatalf("expected one satisfied feedback event, got %v", eventsStored)
	}
}

func TestProcessFeedbackRetriesThenEscalates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, goodRetrieval())
	ticket := f.submit(t, "Login problem", "Cannot login, error 403 after password reset")

	if _, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID); err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}

	// two unsatisfied rounds re-run the pipeline
	for round := 1; round <= 2; round++ {
		outcome, err := f.orchestrator.ProcessFeedback(context.Background(), ticket.ID, FeedbackInput{
			Satisfied: false,
			Comment:   "tried that, no change on my end",
		})
		if err != nil {
			t.Fatalf("ProcessFeedback round %d: %v", round, err)
		}
		if outcome.Kind != OutcomeResponded {
			t.Fatalf("round %d outcome = %s, want %s", round, outcome.Kind, OutcomeResponded)
		}
		if outcome.Attempt != round {
			t.Fatalf("round %d attempt = %d, want %d", round, outcome.Attempt, round)
		}
	}
	if f.retriever.calls != 3 {
		t.Fatalf("pipeline runs = %d, want 3 (initial plus two retries)", f.retriever.calls)
	}

	// the third unsatisfied round must escalate without another run
	outcome, err := f.orchestrator.ProcessFeedback(context.Background(), ticket.ID, FeedbackInput{Satisfied: false})
	if err != nil {
		t.Fatalf("ProcessFeedback final: %v", err)
	}
	if outcome.Kind != OutcomeEscalated {
		t.Fatalf("final outcome = %s, want %s", outcome.Kind, OutcomeEscalated)
	}
	if f.retriever.calls != 3 {
		t.Fatalf("exhausted feedback must not re-run the pipeline, got %d calls", f.retriever.calls)
	}

	record, err := f.escalations.GetByTicket(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetByTicket: %v", err)
	}
	if record.Reason != domain.ReasonMaxRetries {
		t.Fatalf("reason = %s, want %s", record.Reason, domain.ReasonMaxRetries)
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", stored.Attempts)
	}
	if len(stored.Clarifications) != 2 {
		t.Fatalf("clarifications = %d, want 2", len(stored.Clarifications))
	}
}

func TestProcessFeedbackOnTerminalTicketConflicts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, goodRetrieval())
	ticket := f.submit(t, "Login problem", "Cannot login, error 403 after password reset")

	if _, err := f.orchestrator.ProcessTicket(context.Background(), ticket.ID); err != nil {
		t.Fatalf("ProcessTicket: %v", err)
	}
	if _, err := f.orchestrator.ProcessFeedback(context.Background(), ticket.ID, FeedbackInput{Satisfied: true}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.orchestrator.ProcessFeedback(context.Background(), ticket.ID, FeedbackInput{Satisfied: false}); err == nil {
		t.Fatal("feedback on a closed ticket must fail")
	}
}
