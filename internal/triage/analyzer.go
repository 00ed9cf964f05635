package triage

import "strings"

const maxQueryKeywords = 8

// Analyze normalizes ticket text into extracted keywords (deduplicated, in
// first-occurrence order) and a summary query for retrieval. It is a pure
// function of its input, so re-running it on retry with appended
// clarifications yields a deterministic result.
func Analyze(text string) (keywords []string, query string) {
	seen := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if len(tok) < 3 {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}

	queryTerms := keywords
	if len(queryTerms) > maxQueryKeywords {
		queryTerms = queryTerms[:maxQueryKeywords]
	}
	return keywords, strings.Join(queryTerms, " ")
}
