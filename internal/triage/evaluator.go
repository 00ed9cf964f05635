package triage

import (
	"regexp"
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Weights of the confidence formula. They sum to 1.0; the bonus and
// adjustment components contribute their weight directly rather than being
// scaled again.
const (
	weightRetrieval  = 0.40
	weightPriority   = 0.30
	bonusCategory    = 0.10
	bonusSolution    = 0.10
	adjustByTierLow  = -0.10
	adjustByTierHigh = 0.05
)

// EvaluationInput carries the evaluator's inputs.
type EvaluationInput struct {
	RetrievalConfidence float64
	PriorityScore       int
	CategoryClear       bool
	SolutionPresent     bool
	Tier                domain.Tier
}

// Evaluation is the evaluator's verdict for a ticket.
type Evaluation struct {
	Confidence        float64
	SensitiveData     bool
	NegativeSentiment bool
	Escalate          bool
	Reason            domain.EscalationReason
}

// Confidence computes the overall confidence in [0,1]:
//
//	0.40 * retrieval confidence
//	0.30 * clamp(priority/100, 0.2, 0.8)
//	0.10 if category resolved, 0.10 if a solution is present
//	tier adjustment: -0.10 standard, 0 priority, +0.05 urgent
func Confidence(in EvaluationInput) float64 {
	priority := float64(in.PriorityScore) / 100
	if priority < 0.2 {
		priority = 0.2
	}
	if priority > 0.8 {
		priority = 0.8
	}

	confidence := weightRetrieval*in.RetrievalConfidence + weightPriority*priority
	if in.CategoryClear {
		confidence += bonusCategory
	}
	if in.SolutionPresent {
		confidence += bonusSolution
	}
	switch in.Tier {
	case domain.TierStandard:
		confidence += adjustByTierLow
	case domain.TierUrgent:
		confidence += adjustByTierHigh
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// Sensitive-content patterns. Matching is advisory for escalation; the core
// does not redact.
var sensitivePatterns = []*regexp.Regexp{
	// email address
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	// credit-card-like digit run, tolerant of space/dash separators
	regexp.MustCompile(`\b\d(?:[ \-]?\d){12,18}\b`),
	// phone-like number
	regexp.MustCompile(`\+?\d(?:[ \-]?\d){8,14}\b`),
	// national-id-like sequence
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	// passport-like sequence
	regexp.MustCompile(`\b[A-Z]{1,2}\d{6,9}\b`),
}

// DetectSensitiveData reports whether the text contains personal data
// patterns such as email addresses, phone numbers or card-like sequences.
func DetectSensitiveData(text string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// negativeAffectTerms is the curated negative-sentiment vocabulary. Matching
// is a boolean flag, no gradient.
var negativeAffectTerms = []string{
	"angry", "furious", "frustrated", "frustrating", "annoyed", "annoying",
	"unacceptable", "terrible", "horrible", "awful", "useless", "worst",
	"disappointed", "disappointing", "ridiculous", "pathetic", "outraged",
	"disgusted", "fed up", "sick of", "hate", "waste of time", "scam",
	"never works", "cancel my account", "lawsuit", "lawyer", "complaint",
}

// DetectNegativeSentiment reports whether the text contains a known
// negative-affect term.
func DetectNegativeSentiment(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range negativeAffectTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// Evaluate computes confidence, detects sensitive content and negative
// sentiment, and decides escalate-vs-respond. Rule order matters for reason
// attribution when several conditions hold:
//
//  1. confidence below the threshold        -> low_confidence
//  2. sensitive data present                -> sensitive_data
//  3. negative sentiment, confidence below
//     the sentiment threshold              -> negative_sentiment
func Evaluate(text string, in EvaluationInput, cfg Config) Evaluation {
	ev := Evaluation{
		Confidence:        Confidence(in),
		SensitiveData:     DetectSensitiveData(text),
		NegativeSentiment: DetectNegativeSentiment(text),
	}

	switch {
	case ev.Confidence < cfg.ConfidenceThreshold:
		ev.Escalate = true
		ev.Reason = domain.ReasonLowConfidence
	case ev.SensitiveData:
		ev.Escalate = true
		ev.Reason = domain.ReasonSensitiveData
	case ev.NegativeSentiment && ev.Confidence < cfg.SentimentThreshold:
		ev.Escalate = true
		ev.Reason = domain.ReasonNegativeSentiment
	}
	return ev
}
