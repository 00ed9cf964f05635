// Package retrieval adapts the external knowledge retrieval service for the
// triage pipeline: it normalizes heterogeneous search results into snippets
// with a similarity estimate and computes an aggregate retrieval confidence.
package retrieval

import (
	"context"

	"go.uber.org/zap"
)

// Snippet is a normalized knowledge-base candidate.
type Snippet struct {
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// Searcher is the contract of the external knowledge retrieval service.
// Implementations must return an empty slice, not an error, for "no results".
type Searcher interface {
	Search(ctx context.Context, query string) ([]Snippet, error)
}

// Result is what the pipeline consumes from a retrieval run.
type Result struct {
	Snippets   []Snippet
	Confidence float64
}

// Best returns the highest-similarity snippet, or false when empty.
func (r Result) Best() (Snippet, bool) {
	if len(r.Snippets) == 0 {
		return Snippet{}, false
	}
	best := r.Snippets[0]
	for _, s := range r.Snippets[1:] {
		if s.Similarity > best.Similarity {
			best = s
		}
	}
	return best, true
}

// proxyLength is the snippet length at which the length-based similarity
// proxy saturates at 1.0.
const proxyLength = 400

// LengthSimilarity estimates similarity for snippets that arrive without an
// explicit score. Longer, more specific snippets are assumed more relevant.
func LengthSimilarity(text string) float64 {
	sim := float64(len(text)) / proxyLength
	if sim > 1.0 {
		sim = 1.0
	}
	return sim
}

// AggregateConfidence blends mean similarity (dominant term) with a
// diminishing snippet-count bonus capped at bonusCap snippets.
func AggregateConfidence(snippets []Snippet, bonusCap int) float64 {
	if len(snippets) == 0 {
		return 0
	}
	if bonusCap <= 0 {
		bonusCap = 5
	}

	var sum float64
	for _, s := range snippets {
		sum += s.Similarity
	}
	mean := sum / float64(len(snippets))

	count := len(snippets)
	if count > bonusCap {
		count = bonusCap
	}
	bonus := float64(count) / float64(bonusCap)

	confidence := 0.8*mean + 0.2*bonus
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// Retriever is the pipeline-facing adapter. Retrieval failures degrade to an
// empty result instead of failing the pipeline.
type Retriever struct {
	searcher Searcher
	bonusCap int
	logger   *zap.Logger
}

// NewRetriever constructs the adapter.
func NewRetriever(searcher Searcher, bonusCap int, logger *zap.Logger) *Retriever {
	return &Retriever{searcher: searcher, bonusCap: bonusCap, logger: logger}
}

// Retrieve searches the knowledge base and aggregates confidence. A failed
// or timed-out search logs a warning and returns an empty result with
// confidence 0.
func (r *Retriever) Retrieve(ctx context.Context, query string) Result {
	if r.searcher == nil {
		return Result{}
	}
	snippets, err := r.searcher.Search(ctx, query)
	if err != nil {
		r.logger.Warn("retrieval failed; treating as empty result",
			zap.String("query", query),
			zap.Error(err),
		)
		return Result{}
	}
	return Result{
		Snippets:   snippets,
		Confidence: AggregateConfidence(snippets, r.bonusCap),
	}
}
