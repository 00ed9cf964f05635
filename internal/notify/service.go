package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
)

// Service forwards escalation events to the configured sinks. Dispatch is
// fire-and-forget with a timeout; failures are logged and never surfaced to
// the pipeline.
type Service struct {
	dispatcher events.Dispatcher
	sinks      []Sink
	timeout    time.Duration
	logger     *zap.Logger
}

// NewService creates the service.
func NewService(dispatcher events.Dispatcher, sinks []Sink, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		dispatcher: dispatcher,
		sinks:      sinks,
		timeout:    timeout,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to escalation events.
func (s *Service) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketEscalated, s.handleTicketEscalated)
}

func (s *Service) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		s.logger.Warn("unexpected escalation payload", zap.String("ticket_id", event.TicketID))
		return nil
	}
	record := &domain.EscalationRecord{
		ID:        payload.EscalationID,
		TicketID:  event.TicketID,
		Reason:    payload.Reason,
		CreatedAt: event.Timestamp,
	}
	go s.deliver(record)
	return nil
}

func (s *Service) deliver(record *domain.EscalationRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	for _, sink := range s.sinks {
		if err := sink.Dispatch(ctx, record); err != nil {
			// escalation stays committed; delivery is retried out-of-band
			s.logger.Warn("escalation dispatch failed",
				zap.String("escalation_id", record.ID),
				zap.String("ticket_id", record.TicketID),
				zap.Error(err),
			)
		}
	}
}
