// Package notify delivers escalation records to external sinks. Delivery is
// best effort; an escalation is committed before dispatch and a failed
// delivery never rolls it back.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Sink accepts an escalation record for asynchronous delivery.
type Sink interface {
	Dispatch(ctx context.Context, record *domain.EscalationRecord) error
}

// WebhookSink posts escalation records to a webhook endpoint.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates the sink. If url is empty, Dispatch is a no-op.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Dispatch posts the record as JSON.
func (s *WebhookSink) Dispatch(ctx context.Context, record *domain.EscalationRecord) error {
	if s.url == "" {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"escalation_id": record.ID,
		"ticket_id":     record.TicketID,
		"reason":        record.Reason,
		"created_at":    record.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("notify: marshal escalation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// EmailSink is a stub that logs instead of sending mail.
type EmailSink struct {
	from   string
	logger *zap.Logger
}

// NewEmailSink creates the stub sink. If from is empty, Dispatch is a no-op.
func NewEmailSink(from string, logger *zap.Logger) *EmailSink {
	return &EmailSink{from: from, logger: logger}
}

// Dispatch logs the would-be email.
func (s *EmailSink) Dispatch(_ context.Context, record *domain.EscalationRecord) error {
	if s.from == "" {
		return nil
	}
	s.logger.Info("escalation email stub",
		zap.String("from", s.from),
		zap.String("escalation_id", record.ID),
		zap.String("ticket_id", record.TicketID),
		zap.String("reason", string(record.Reason)),
	)
	return nil
}
