package triage

import (
	"reflect"
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		text         string
		wantKeywords []string
		wantQuery    string
	}{
		{
			name:         "drops stopwords and short tokens",
			text:         "I cannot login to the app, error 403",
			wantKeywords: []string{"cannot", "login", "app", "error", "403"},
			wantQuery:    "cannot login app error 403",
		},
		{
			name:         "deduplicates in first-occurrence order",
			text:         "error timeout error timeout database error",
			wantKeywords: []string{"error", "timeout", "database"},
			wantQuery:    "error timeout database",
		},
		{
			name:         "empty input",
			text:         "",
			wantKeywords: nil,
			wantQuery:    "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			keywords, query := Analyze(tt.text)
			if !reflect.DeepEqual(keywords, tt.wantKeywords) {
				t.Fatalf("keywords = %v, want %v", keywords, tt.wantKeywords)
			}
			if query != tt.wantQuery {
				t.Fatalf("query = %q, want %q", query, tt.wantQuery)
			}
		})
	}
}

func TestAnalyzeQueryCapped(t *testing.T) {
	t.Parallel()

	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo"
	keywords, query := Analyze(text)
	if len(keywords) != 11 {
		t.Fatalf("expected all 11 keywords, got %d", len(keywords))
	}
	if got := len(strings.Fields(query)); got != 8 {
		t.Fatalf("query should carry at most 8 terms, got %d", got)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	t.Parallel()

	text := "payment failed twice, the charge appears twice on my invoice"
	k1, q1 := Analyze(text)
	k2, q2 := Analyze(text)
	if !reflect.DeepEqual(k1, k2) || q1 != q2 {
		t.Fatal("Analyze must be deterministic for identical input")
	}
}
