package triage

import "strings"

// Category keyword sets used by the classifier and, in union, by the
// validator's content-signal check. Matching is case-insensitive on
// whitespace-delimited tokens.
var (
	authenticationKeywords = keywordSet(
		"login", "signin", "logout", "password", "passwords", "credential",
		"credentials", "authentication", "auth", "token", "tokens", "2fa",
		"mfa", "otp", "sso", "session", "locked", "lockout", "reset",
		"401", "403",
	)

	billingKeywords = keywordSet(
		"billing", "invoice", "invoices", "payment", "payments", "charge",
		"charged", "refund", "subscription", "price", "pricing", "plan",
		"upgrade", "downgrade", "credit", "receipt",
	)

	technicalKeywords = keywordSet(
		"error", "bug", "crash", "crashes", "broken", "timeout", "slow",
		"outage", "down", "exception", "failure", "failed", "fails", "api",
		"server", "database", "sync", "install", "update", "connection",
		"500", "502", "503",
	)
)

// stopwords are dropped during keyword extraction.
var stopwords = keywordSet(
	"the", "and", "for", "but", "not", "with", "this", "that", "these",
	"those", "are", "was", "were", "have", "has", "had", "you", "your",
	"our", "their", "its", "can", "could", "would", "should", "will",
	"when", "what", "where", "which", "how", "why", "who", "after",
	"before", "from", "into", "onto", "out", "off", "all", "any", "some",
	"there", "here", "been", "being", "get", "got", "getting", "please",
	"help", "need", "still", "just", "very", "really",
)

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// tokenize lowercases text and splits it into alphanumeric tokens.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

// hasContentSignal reports whether any token belongs to a known category
// vocabulary.
func hasContentSignal(tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := authenticationKeywords[tok]; ok {
			return true
		}
		if _, ok := billingKeywords[tok]; ok {
			return true
		}
		if _, ok := technicalKeywords[tok]; ok {
			return true
		}
	}
	return false
}
