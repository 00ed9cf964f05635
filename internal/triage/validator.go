package triage

import "github.com/spec-kit/ticket-triage/internal/domain"

const (
	minDescriptionLength = 20
	minUsableTokens      = 3
)

// ValidationResult is the accept/reject outcome of ticket validation.
type ValidationResult struct {
	Accepted bool
	Note     string
}

// Validate rejects tickets lacking minimum content or signal. Rejection is a
// distinct terminal outcome asking the client for clarification; it is not an
// escalation. The pipeline halts before scoring on reject.
func Validate(ticket *domain.Ticket) ValidationResult {
	if len(ticket.Description) < minDescriptionLength {
		return ValidationResult{Note: "description too short to triage"}
	}

	tokens := tokenize(ticket.FullText())
	if !hasContentSignal(tokens) {
		return ValidationResult{Note: "no recognizable content keywords"}
	}

	distinct := make(map[string]struct{})
	for _, tok := range tokens {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if len(tok) < 3 {
			continue
		}
		distinct[tok] = struct{}{}
	}
	if len(distinct) < minUsableTokens {
		return ValidationResult{Note: "content too vague to classify"}
	}

	return ValidationResult{Accepted: true}
}
