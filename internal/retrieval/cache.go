package retrieval

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedSearcher fronts a Searcher with a Redis query cache. Cache problems
// never fail a search; they fall through to the backing searcher.
type CachedSearcher struct {
	client *redis.Client
	next   Searcher
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSearcher constructs the cache decorator.
func NewCachedSearcher(client *redis.Client, next Searcher, ttl time.Duration, logger *zap.Logger) *CachedSearcher {
	return &CachedSearcher{client: client, next: next, ttl: ttl, logger: logger}
}

// Search returns cached snippets when present, otherwise delegates and
// stores the result.
func (c *CachedSearcher) Search(ctx context.Context, query string) ([]Snippet, error) {
	key := "kb:query:" + query

	if c.client != nil {
		cached, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var snippets []Snippet
			if err := json.Unmarshal(cached, &snippets); err == nil {
				return snippets, nil
			}
			c.logger.Warn("discarding malformed cache entry", zap.String("key", key))
		} else if err != redis.Nil {
			c.logger.Warn("retrieval cache read failed", zap.Error(err))
		}
	}

	snippets, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		encoded, err := json.Marshal(snippets)
		if err == nil {
			if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
				c.logger.Warn("retrieval cache write failed", zap.Error(err))
			}
		}
	}
	return snippets, nil
}
