// Package triage implements the staged ticket triage pipeline: validation,
// scoring, query analysis, classification, solution retrieval, confidence
// evaluation, and the escalate-or-respond decision, plus the bounded
// feedback/retry loop.
//
// Each stage is a pure function of the ticket and configuration; the
// orchestrator owns all sequencing and state transitions.
package triage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/observability"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/retrieval"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util"
)

// Config holds the tunables of the triage core.
type Config struct {
	MaxAttempts         int
	ConfidenceThreshold float64
	SentimentThreshold  float64
	SnippetBonusCap     int
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:         2,
		ConfidenceThreshold: 0.60,
		SentimentThreshold:  0.75,
		SnippetBonusCap:     5,
	}
}

// OutcomeKind enumerates the reported results of a pipeline invocation.
type OutcomeKind string

const (
	OutcomeResponded OutcomeKind = "responded"
	OutcomeEscalated OutcomeKind = "escalated"
	OutcomeNeedsInfo OutcomeKind = "needs_info"
	OutcomeClosed    OutcomeKind = "closed"
)

// Outcome is what a pipeline or feedback invocation reports to the caller.
type Outcome struct {
	TicketID     string
	Kind         OutcomeKind
	Message      string
	EscalationID string
	Confidence   float64
	Attempt      int
}

// SolutionRetriever is the pipeline's view of the retrieval adapter.
type SolutionRetriever interface {
	Retrieve(ctx context.Context, query string) retrieval.Result
}

// FeedbackInput carries a client reaction to a composed response.
type FeedbackInput struct {
	Satisfied bool
	Comment   string
}

// Orchestrator sequences the pipeline stages per ticket and owns the state
// machine. One invocation owns its ticket exclusively; there is no internal
// parallelism within a single run.
type Orchestrator struct {
	tickets     repository.TicketRepository
	feedback    repository.FeedbackRepository
	retriever   SolutionRetriever
	escalations *EscalationManager
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	cfg         Config
}

// Dependencies bundles the orchestrator's collaborators.
type Dependencies struct {
	TicketRepo    repository.TicketRepository
	FeedbackRepo  repository.FeedbackRepository
	Retriever     SolutionRetriever
	EscalationMgr *EscalationManager
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewOrchestrator constructs the orchestrator.
func NewOrchestrator(deps Dependencies, cfg Config) *Orchestrator {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		tickets:     deps.TicketRepo,
		feedback:    deps.FeedbackRepo,
		retriever:   deps.Retriever,
		escalations: deps.EscalationMgr,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		cfg:         cfg,
	}
}

// ProcessTicket drives a ticket from received through evaluation, then
// either composes a response (non-terminal, awaits feedback) or escalates
// (terminal).
func (o *Orchestrator) ProcessTicket(ctx context.Context, ticketID string) (*Outcome, error) {
	ticket, err := o.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.State.Terminal() {
		return nil, apperrors.NewConflict("ticket is terminal", map[string]any{"ticket_id": ticketID, "state": ticket.State})
	}
	if ticket.State == domain.StateAwaitingFeedback {
		return nil, apperrors.NewConflict("ticket is awaiting feedback", map[string]any{"ticket_id": ticketID})
	}
	o.publish(ctx, events.EventTicketReceived, ticket.ID, nil)
	return o.run(ctx, ticket)
}

// ProcessFeedback applies a feedback event to a ticket awaiting feedback.
// On a retry transition it re-enters the pipeline for the same ticket; the
// re-entry depth is bounded by the attempt counter, enforced in
// ApplyFeedback.
func (o *Orchestrator) ProcessFeedback(ctx context.Context, ticketID string, input FeedbackInput) (*Outcome, error) {
	ticket, err := o.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	event := &domain.FeedbackEvent{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		Satisfied: input.Satisfied,
		Comment:   input.Comment,
		Attempt:   ticket.Attempts,
	}

	transition, err := ApplyFeedback(ticket, event, o.cfg.MaxAttempts)
	if err != nil {
		return nil, apperrors.NewConflict(err.Error(), map[string]any{"ticket_id": ticketID})
	}

	if err := o.feedback.Append(ctx, event); err != nil {
		return nil, apperrors.NewStageFailure("feedback", err)
	}

	switch transition {
	case TransitionClosed:
		if err := o.update(ctx, ticket, "feedback"); err != nil {
			return nil, err
		}
		o.logStage(ticket, "feedback", "closed")
		o.countFeedback("closed")
		o.countOutcome("closed")
		o.publish(ctx, events.EventTicketClosed, ticket.ID, events.TicketClosedPayload{Attempt: ticket.Attempts})
		return &Outcome{TicketID: ticket.ID, Kind: OutcomeClosed, Attempt: ticket.Attempts}, nil

	case TransitionRetrying:
		if err := o.update(ctx, ticket, "feedback"); err != nil {
			return nil, err
		}
		o.logStage(ticket, "feedback", "retrying")
		o.countFeedback("retrying")
		if o.metrics != nil {
			o.metrics.RetryTotal.Inc()
		}
		o.publish(ctx, events.EventTicketRetried, ticket.ID, events.TicketRetriedPayload{
			Attempt: ticket.Attempts,
			Comment: input.Comment,
		})
		// re-run the full pipeline from validation with the clarification
		// folded into the ticket text
		return o.run(ctx, ticket)

	default:
		o.logStage(ticket, "feedback", "escalating")
		o.countFeedback("escalated")
		return o.escalate(ctx, ticket, domain.ReasonMaxRetries)
	}
}

// run executes validation through evaluation on a ticket the caller owns.
func (o *Orchestrator) run(ctx context.Context, ticket *domain.Ticket) (*Outcome, error) {
	start := time.Now()

	// validating
	ticket.State = domain.StateValidating
	result := Validate(ticket)
	o.observeStage("validate", start)
	if !result.Accepted {
		o.logStage(ticket, "validate", "rejected")
		ticket.ValidationNote = result.Note
		ticket.State = domain.StateNeedsInfo
		if err := o.update(ctx, ticket, "validate"); err != nil {
			return nil, err
		}
		o.countOutcome("needs_info")
		o.publish(ctx, events.EventTicketRejected, ticket.ID, events.TicketRejectedPayload{Note: result.Note})
		return &Outcome{
			TicketID: ticket.ID,
			Kind:     OutcomeNeedsInfo,
			Message:  ComposeClarificationRequest(result.Note),
			Attempt:  ticket.Attempts,
		}, nil
	}
	o.logStage(ticket, "validate", "accepted")

	// scoring
	stageStart := time.Now()
	ticket.State = domain.StateScoring
	ticket.PriorityScore = Score(ticket.FullText())
	o.observeStage("score", stageStart)
	o.logStage(ticket, "score", "done")

	// analyzing
	stageStart = time.Now()
	ticket.State = domain.StateAnalyzing
	ticket.Keywords, ticket.SummaryQuery = Analyze(ticket.FullText())
	o.observeStage("analyze", stageStart)
	o.logStage(ticket, "analyze", "done")

	// classifying
	stageStart = time.Now()
	ticket.State = domain.StateClassifying
	cls := Classify(ticket.Keywords, ticket.PriorityScore)
	ticket.Category = cls.Category
	ticket.Tier = cls.Tier
	o.observeStage("classify", stageStart)
	o.logStage(ticket, "classify", string(cls.Category))
	if err := o.update(ctx, ticket, "classify"); err != nil {
		return nil, err
	}

	// retrieving; failures degrade to an empty result inside the adapter
	stageStart = time.Now()
	ticket.State = domain.StateRetrieving
	res := o.retriever.Retrieve(ctx, ticket.SummaryQuery)
	if best, ok := res.Best(); ok {
		ticket.SolutionText = best.Text
	} else {
		ticket.SolutionText = ""
	}
	ticket.RetrievalConfidence = res.Confidence
	o.observeStage("retrieve", stageStart)
	o.logStage(ticket, "retrieve", "done")

	// evaluating
	stageStart = time.Now()
	ticket.State = domain.StateEvaluating
	ev := Evaluate(ticket.FullText(), EvaluationInput{
		RetrievalConfidence: ticket.RetrievalConfidence,
		PriorityScore:       ticket.PriorityScore,
		CategoryClear:       cls.Clear(),
		SolutionPresent:     ticket.SolutionText != "",
		Tier:                ticket.Tier,
	}, o.cfg)
	ticket.Confidence = ev.Confidence
	ticket.SensitiveData = ev.SensitiveData
	ticket.NegativeSentiment = ev.NegativeSentiment
	o.observeStage("evaluate", stageStart)
	if o.metrics != nil {
		o.metrics.Confidence.Observe(ev.Confidence)
	}

	if ev.Escalate {
		o.logStage(ticket, "evaluate", "escalate")
		return o.escalate(ctx, ticket, ev.Reason)
	}
	o.logStage(ticket, "evaluate", "respond")

	// responding
	ticket.State = domain.StateResponding
	ticket.ResponseText = ComposeResponse(ticket, ticket.SolutionText)
	ticket.State = domain.StateAwaitingFeedback
	if err := o.update(ctx, ticket, "respond"); err != nil {
		return nil, err
	}
	o.logStage(ticket, "respond", "awaiting feedback")
	o.countOutcome("responded")
	o.publish(ctx, events.EventTicketResponded, ticket.ID, events.TicketRespondedPayload{
		Category:   ticket.Category,
		Tier:       ticket.Tier,
		Confidence: ticket.Confidence,
		Attempt:    ticket.Attempts,
	})

	return &Outcome{
		TicketID:   ticket.ID,
		Kind:       OutcomeResponded,
		Message:    ticket.ResponseText,
		Confidence: ticket.Confidence,
		Attempt:    ticket.Attempts,
	}, nil
}

func (o *Orchestrator) escalate(ctx context.Context, ticket *domain.Ticket, reason domain.EscalationReason) (*Outcome, error) {
	ticket.State = domain.StateEscalating
	record, escErr := o.escalations.Escalate(ctx, ticket, reason)

	if err := o.update(ctx, ticket, "escalate"); err != nil {
		return nil, err
	}
	if escErr != nil {
		return nil, apperrors.NewStageFailure("escalate", escErr)
	}

	o.countOutcome("escalated")
	if o.metrics != nil {
		o.metrics.EscalationsTotal.WithLabelValues(string(reason)).Inc()
	}
	o.publish(ctx, events.EventTicketEscalated, ticket.ID, events.TicketEscalatedPayload{
		EscalationID: record.ID,
		Reason:       reason,
		Category:     ticket.Category,
		Tier:         ticket.Tier,
	})

	return &Outcome{
		TicketID:     ticket.ID,
		Kind:         OutcomeEscalated,
		Message:      ComposeEscalationNotice(record.ID),
		EscalationID: record.ID,
		Confidence:   ticket.Confidence,
		Attempt:      ticket.Attempts,
	}, nil
}

// update persists the ticket; a store failure aborts the current stage
// transition and surfaces to the caller for retry.
func (o *Orchestrator) update(ctx context.Context, ticket *domain.Ticket, stage string) error {
	if err := o.tickets.Update(ctx, ticket); err != nil {
		o.logger.Error("ticket store update failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("stage", stage),
			zap.Error(err),
		)
		return apperrors.NewStageFailure(stage, err)
	}
	return nil
}

func (o *Orchestrator) logStage(ticket *domain.Ticket, stage, outcome string) {
	o.logger.Info("stage transition",
		zap.String("stage", stage),
		zap.String("ticket_id", ticket.ID),
		zap.String("state", string(ticket.State)),
		zap.String("outcome", outcome),
	)
}

func (o *Orchestrator) observeStage(stage string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (o *Orchestrator) countOutcome(outcome string) {
	if o.metrics == nil {
		return
	}
	o.metrics.TicketsTotal.WithLabelValues(outcome).Inc()
}

func (o *Orchestrator) countFeedback(transition string) {
	if o.metrics == nil {
		return
	}
	o.metrics.FeedbackTotal.WithLabelValues(transition).Inc()
}

func (o *Orchestrator) publish(ctx context.Context, eventType events.EventType, ticketID string, payload interface{}) {
	if o.dispatcher == nil {
		return
	}
	_ = o.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
