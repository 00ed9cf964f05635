package triage

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
)

// EscalationManager constructs escalation records and stamps tickets
// terminal. Escalation is committed once the record is constructed;
// notification delivery is a separate, best-effort concern.
type EscalationManager struct {
	escalations repository.EscalationRepository
	logger      *zap.Logger
}

// NewEscalationManager creates the manager.
func NewEscalationManager(escalations repository.EscalationRepository, logger *zap.Logger) *EscalationManager {
	return &EscalationManager{escalations: escalations, logger: logger}
}

// Escalate builds an immutable EscalationRecord with a fresh id, stamps the
// ticket's escalation id (making it terminal) and persists the record. A
// persistence failure is returned alongside the record: the escalation
// decision stands and the caller still owns the stamped ticket.
func (m *EscalationManager) Escalate(ctx context.Context, ticket *domain.Ticket, reason domain.EscalationReason) (*domain.EscalationRecord, error) {
	record := &domain.EscalationRecord{
		ID:        ulid.Make().String(),
		TicketID:  ticket.ID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}

	ticket.EscalationID = &record.ID
	ticket.State = domain.StateEscalated

	m.logger.Info("ticket escalated",
		zap.String("ticket_id", ticket.ID),
		zap.String("escalation_id", record.ID),
		zap.String("reason", string(reason)),
	)

	if err := m.escalations.Create(ctx, record); err != nil {
		return record, err
	}
	return record, nil
}
