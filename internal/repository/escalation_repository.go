package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// EscalationRepository encapsulates escalation record persistence. Records
// are append-only.
type EscalationRepository interface {
	Create(ctx context.Context, record *domain.EscalationRecord) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.EscalationRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.EscalationRecord, error)
}

type escalationRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRepository instantiates the Postgres-backed repository.
func NewEscalationRepository(pool *pgxpool.Pool) EscalationRepository {
	return &escalationRepository{pool: pool}
}

func (r *escalationRepository) Create(ctx context.Context, record *domain.EscalationRecord) error {
	const query = `
        INSERT INTO escalations (id, ticket_id, reason)
        VALUES ($1,$2,$3)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		record.ID,
		record.TicketID,
		record.Reason,
	).Scan(&record.CreatedAt)
}

func (r *escalationRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.EscalationRecord, error) {
	const query = `
        SELECT id, ticket_id, reason, created_at
        FROM escalations WHERE ticket_id=$1
        ORDER BY created_at DESC LIMIT 1`
	var record domain.EscalationRecord
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&record.ID,
		&record.TicketID,
		&record.Reason,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *escalationRepository) List(ctx context.Context, limit, offset int) ([]domain.EscalationRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, reason, created_at
        FROM escalations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationRecord
	for rows.Next() {
		var record domain.EscalationRecord
		if err := rows.Scan(&record.ID, &record.TicketID, &record.Reason, &record.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
