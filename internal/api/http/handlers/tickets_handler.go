package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/token"
	"github.com/spec-kit/ticket-triage/internal/triage"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util"
)

// TicketsHandler manages ticket intake, lookup and feedback endpoints.
type TicketsHandler struct {
	tickets      repository.TicketRepository
	orchestrator *triage.Orchestrator
	tokens       *token.Manager
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets repository.TicketRepository, orchestrator *triage.Orchestrator, tokens *token.Manager) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, orchestrator: orchestrator, tokens: tokens}
}

// Submit POST /tickets. Creates the ticket and runs the triage pipeline
// synchronously, reporting the outcome.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("subject and description required", nil)
	}

	ticket := &domain.Ticket{
		ID:            uuid.NewString(),
		Subject:       strings.TrimSpace(req.Subject),
		Description:   strings.TrimSpace(req.Description),
		ClientContact: strings.TrimSpace(req.ClientContact),
		State:         domain.StateReceived,
	}
	if err := h.tickets.Create(c.UserContext(), ticket); err != nil {
		return apperrors.MapError(err)
	}

	outcome, err := h.orchestrator.ProcessTicket(c.UserContext(), ticket.ID)
	if err != nil {
		return err
	}
	if outcome.Kind == triage.OutcomeNeedsInfo {
		return apperrors.NewNeedsInformation(outcome.Message, map[string]any{"ticket_id": ticket.ID})
	}
	resp, err := h.outcomeResponse(outcome)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Feedback POST /tickets/:id/feedback. Verifies the feedback token against
// the ticket and its current attempt, then drives the feedback loop.
func (h *TicketsHandler) Feedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	claims, err := h.tokens.Parse(req.Token)
	if err != nil {
		return apperrors.NewValidationError("invalid feedback token", nil)
	}
	ticketID := c.Params("id")
	if claims.TicketID != ticketID {
		return apperrors.NewValidationError("feedback token does not match ticket", nil)
	}

	ticket, err := h.tickets.GetByID(c.UserContext(), ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if claims.Attempt != ticket.Attempts {
		return apperrors.NewConflict("stale feedback token", map[string]any{
			"token_attempt":  claims.Attempt,
			"ticket_attempt": ticket.Attempts,
		})
	}

	outcome, err := h.orchestrator.ProcessFeedback(c.UserContext(), ticketID, triage.FeedbackInput{
		Satisfied: req.Satisfied,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	resp, err := h.outcomeResponse(outcome)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// outcomeResponse maps an outcome to its wire form, minting a feedback token
// when the ticket awaits feedback.
func (h *TicketsHandler) outcomeResponse(outcome *triage.Outcome) (dto.OutcomeResponse, error) {
	resp := dto.OutcomeResponse{
		TicketID:     outcome.TicketID,
		Outcome:      string(outcome.Kind),
		Message:      outcome.Message,
		EscalationID: outcome.EscalationID,
		Confidence:   outcome.Confidence,
		Attempt:      outcome.Attempt,
	}
	if outcome.Kind == triage.OutcomeResponded {
		feedbackToken, err := h.tokens.Issue(outcome.TicketID, outcome.Attempt)
		if err != nil {
			return dto.OutcomeResponse{}, apperrors.NewInternalError(err)
		}
		resp.FeedbackToken = feedbackToken
	}
	return resp, nil
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                ticket.ID,
		Subject:           ticket.Subject,
		State:             ticket.State,
		PriorityScore:     ticket.PriorityScore,
		Category:          ticket.Category,
		Tier:              ticket.Tier,
		Keywords:          ticket.Keywords,
		Confidence:        ticket.Confidence,
		SensitiveData:     ticket.SensitiveData,
		NegativeSentiment: ticket.NegativeSentiment,
		ResponseText:      ticket.ResponseText,
		EscalationID:      ticket.EscalationID,
		Attempts:          ticket.Attempts,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
		ClosedAt:          ticket.ClosedAt,
	}
}
