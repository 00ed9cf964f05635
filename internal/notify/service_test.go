package notify

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
)

type captureSink struct {
	records chan *domain.EscalationRecord
}

func (s *captureSink) Dispatch(_ context.Context, record *domain.EscalationRecord) error {
	s.records <- record
	return nil
}

func TestServiceDeliversEscalationEvents(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	sink := &captureSink{records: make(chan *domain.EscalationRecord, 1)}

	service := NewService(dispatcher, []Sink{sink}, time.Second, zap.NewNop())
	service.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventTicketEscalated,
		TicketID:  "t-1",
		Timestamp: time.Now(),
		Payload: events.TicketEscalatedPayload{
			EscalationID: "e-1",
			Reason:       domain.ReasonLowConfidence,
		},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case record := <-sink.records:
		if record.ID != "e-1" || record.TicketID != "t-1" || record.Reason != domain.ReasonLowConfidence {
			t.Fatalf("delivered record = %+v", record)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("escalation was never delivered to the sink")
	}
}

func TestServiceIgnoresOtherEvents(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	sink := &captureSink{records: make(chan *domain.EscalationRecord, 1)}

	service := NewService(dispatcher, []Sink{sink}, time.Second, zap.NewNop())
	service.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketClosed,
		TicketID: "t-1",
		Payload:  events.TicketClosedPayload{},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case record := <-sink.records:
		t.Fatalf("unexpected delivery: %+v", record)
	case <-time.After(50 * time.Millisecond):
	}
}
