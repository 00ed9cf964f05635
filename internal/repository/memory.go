package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// MemoryTicketRepository holds tickets in memory. Used for dev mode without a
// DSN and as the store fake in tests. Reads and writes return copies so a
// caller owns its ticket exclusively until it writes it back.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
}

// NewMemoryTicketRepository initializes the in-memory store.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{tickets: make(map[string]*domain.Ticket)}
}

// Create stores a copy of the ticket. Fails on duplicate id.
func (r *MemoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; exists {
		return errors.New("ticket already exists")
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	cp := cloneTicket(ticket)
	r.tickets[ticket.ID] = cp
	return nil
}

// Update overwrites a stored ticket.
func (r *MemoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tickets[ticket.ID]; !exists {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

// GetByID fetches a copy of a ticket.
func (r *MemoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneTicket(ticket), nil
}

// ListWithFilter returns tickets matching the filter, most recently updated
// first.
func (r *MemoryTicketRepository) ListWithFilter(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if !matchesFilter(ticket, filter) {
			continue
		}
		result = append(result, *cloneTicket(ticket))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return []domain.Ticket{}, nil
	}
	result = result[offset:]

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func matchesFilter(ticket *domain.Ticket, filter TicketFilter) bool {
	if len(filter.States) > 0 && !containsState(filter.States, ticket.State) {
		return false
	}
	if len(filter.Categories) > 0 && !containsCategory(filter.Categories, ticket.Category) {
		return false
	}
	if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func containsState(states []domain.TriageState, state domain.TriageState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

func containsCategory(categories []domain.Category, category domain.Category) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func cloneTicket(ticket *domain.Ticket) *domain.Ticket {
	cp := *ticket
	cp.Keywords = append([]string(nil), ticket.Keywords...)
	cp.Clarifications = append([]string(nil), ticket.Clarifications...)
	if ticket.EscalationID != nil {
		id := *ticket.EscalationID
		cp.EscalationID = &id
	}
	if ticket.ClosedAt != nil {
		t := *ticket.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}

// MemoryEscalationRepository holds escalation records in memory.
type MemoryEscalationRepository struct {
	mu      sync.RWMutex
	records []domain.EscalationRecord
}

// NewMemoryEscalationRepository initializes the in-memory store.
func NewMemoryEscalationRepository() *MemoryEscalationRepository {
	return &MemoryEscalationRepository{}
}

// Create appends an escalation record.
func (r *MemoryEscalationRepository) Create(_ context.Context, record *domain.EscalationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.CreatedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

// GetByTicket returns the most recent escalation for a ticket.
func (r *MemoryEscalationRepository) GetByTicket(_ context.Context, ticketID string) (*domain.EscalationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].TicketID == ticketID {
			cp := r.records[i]
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// List returns escalation records, most recent first.
func (r *MemoryEscalationRepository) List(_ context.Context, limit, offset int) ([]domain.EscalationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	result := make([]domain.EscalationRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		result = append(result, r.records[i])
	}
	if offset >= len(result) {
		return []domain.EscalationRecord{}, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// MemoryFeedbackRepository holds feedback events in memory, per ticket in
// insertion order.
type MemoryFeedbackRepository struct {
	mu     sync.RWMutex
	events map[string][]domain.FeedbackEvent
}

// NewMemoryFeedbackRepository initializes the in-memory store.
func NewMemoryFeedbackRepository() *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{events: make(map[string][]domain.FeedbackEvent)}
}

// Append records a feedback event.
func (r *MemoryFeedbackRepository) Append(_ context.Context, event *domain.FeedbackEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.CreatedAt = time.Now()
	r.events[event.TicketID] = append(r.events[event.TicketID], *event)
	return nil
}

// ListByTicket returns feedback events for a ticket in insertion order.
func (r *MemoryFeedbackRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.FeedbackEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.FeedbackEvent(nil), r.events[ticketID]...), nil
}
