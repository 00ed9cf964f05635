package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	States      []domain.TriageState
	Categories  []domain.Category
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// textArray normalizes a nil slice to an empty one. pgx encodes nil []string
// as SQL NULL, which the TEXT[] NOT NULL columns reject; a freshly submitted
// ticket has nil keywords and clarifications.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

const ticketColumns = `id, subject, description, client_contact, state,
	priority_score, category, tier, keywords, summary_query, solution_text,
	retrieval_confidence, confidence, sensitive_data, negative_sentiment,
	response_text, validation_note, clarifications, escalation_id, attempts,
	created_at, updated_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, subject, description, client_contact, state,
            priority_score, category, tier, keywords, summary_query, solution_text,
            retrieval_confidence, confidence, sensitive_data, negative_sentiment,
            response_text, validation_note, clarifications, escalation_id, attempts)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Subject,
		ticket.Description,
		ticket.ClientContact,
		ticket.State,
		ticket.PriorityScore,
		ticket.Category,
		ticket.Tier,
		textArray(ticket.Keywords),
		ticket.SummaryQuery,
		ticket.SolutionText,
		ticket.RetrievalConfidence,
		ticket.Confidence,
		ticket.SensitiveData,
		ticket.NegativeSentiment,
		ticket.ResponseText,
		ticket.ValidationNote,
		textArray(ticket.Clarifications),
		ticket.EscalationID,
		ticket.Attempts,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET state=$1, priority_score=$2, category=$3, tier=$4,
            keywords=$5, summary_query=$6, solution_text=$7, retrieval_confidence=$8,
            confidence=$9, sensitive_data=$10, negative_sentiment=$11, response_text=$12,
            validation_note=$13, clarifications=$14, escalation_id=$15, attempts=$16,
            closed_at=$17, updated_at=NOW()
        WHERE id=$18`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.State,
		ticket.PriorityScore,
		ticket.Category,
		ticket.Tier,
		textArray(ticket.Keywords),
		ticket.SummaryQuery,
		ticket.SolutionText,
		ticket.RetrievalConfidence,
		ticket.Confidence,
		ticket.SensitiveData,
		ticket.NegativeSentiment,
		ticket.ResponseText,
		ticket.ValidationNote,
		textArray(ticket.Clarifications),
		ticket.EscalationID,
		ticket.Attempts,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.ClientContact,
		&ticket.State,
		&ticket.PriorityScore,
		&ticket.Category,
		&ticket.Tier,
		&ticket.Keywords,
		&ticket.SummaryQuery,
		&ticket.SolutionText,
		&ticket.RetrievalConfidence,
		&ticket.Confidence,
		&ticket.SensitiveData,
		&ticket.NegativeSentiment,
		&ticket.ResponseText,
		&ticket.ValidationNote,
		&ticket.Clarifications,
		&ticket.EscalationID,
		&ticket.Attempts,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("state IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, cat := range filter.Categories {
			args = append(args, cat)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Subject,
			&ticket.Description,
			&ticket.ClientContact,
			&ticket.State,
			&ticket.PriorityScore,
			&ticket.Category,
			&ticket.Tier,
			&ticket.Keywords,
			&ticket.SummaryQuery,
			&ticket.SolutionText,
			&ticket.RetrievalConfidence,
			&ticket.Confidence,
			&ticket.SensitiveData,
			&ticket.NegativeSentiment,
			&ticket.ResponseText,
			&ticket.ValidationNote,
			&ticket.Clarifications,
			&ticket.EscalationID,
			&ticket.Attempts,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
