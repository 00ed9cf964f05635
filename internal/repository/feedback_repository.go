package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// FeedbackRepository encapsulates feedback event persistence. Events are
// append-only and ordered by insertion.
type FeedbackRepository interface {
	Append(ctx context.Context, event *domain.FeedbackEvent) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.FeedbackEvent, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates the Postgres-backed repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Append(ctx context.Context, event *domain.FeedbackEvent) error {
	const query = `
        INSERT INTO feedback_events (id, ticket_id, satisfied, comment, attempt)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		event.ID,
		event.TicketID,
		event.Satisfied,
		event.Comment,
		event.Attempt,
	).Scan(&event.CreatedAt)
}

func (r *feedbackRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.FeedbackEvent, error) {
	const query = `
        SELECT id, ticket_id, satisfied, comment, attempt, created_at
        FROM feedback_events WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FeedbackEvent
	for rows.Next() {
		var event domain.FeedbackEvent
		if err := rows.Scan(
			&event.ID,
			&event.TicketID,
			&event.Satisfied,
			&event.Comment,
			&event.Attempt,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
