package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPSearcher queries a knowledge retrieval service over HTTP. The service
// may answer with a JSON array of plain strings or of structured records
// carrying an explicit similarity; both are normalized into snippets.
type HTTPSearcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSearcher constructs the client with a request timeout.
func NewHTTPSearcher(baseURL string, timeout time.Duration) *HTTPSearcher {
	return &HTTPSearcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type wireSnippet struct {
	Text       string   `json:"text"`
	Similarity *float64 `json:"similarity"`
}

// Search calls GET {base}/search?q={query} and normalizes the response.
func (s *HTTPSearcher) Search(ctx context.Context, query string) ([]Snippet, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeSnippets(body)
}

// decodeSnippets accepts both wire shapes the retrieval contract allows.
func decodeSnippets(body []byte) ([]Snippet, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode retrieval response: %w", err)
	}

	snippets := make([]Snippet, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			snippets = append(snippets, Snippet{
				Text:       text,
				Similarity: LengthSimilarity(text),
			})
			continue
		}
		var record wireSnippet
		if err := json.Unmarshal(item, &record); err != nil {
			return nil, fmt.Errorf("decode retrieval snippet: %w", err)
		}
		snippet := Snippet{Text: record.Text}
		if record.Similarity != nil {
			snippet.Similarity = clamp01(*record.Similarity)
		} else {
			snippet.Similarity = LengthSimilarity(record.Text)
		}
		snippets = append(snippets, snippet)
	}
	return snippets, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
