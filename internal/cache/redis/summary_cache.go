package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/tokentoll/internal/domain"
	"github.com/davidbz/tokentoll/internal/observability"
)

// SummaryCache implements domain.SummaryCache on Redis. Rows are stored as
// a JSON payload under the caller-provided key.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates a new Redis summary cache adapter.
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

// Get retrieves cached summary rows, or domain.ErrCacheMiss.
func (c *SummaryCache) Get(ctx context.Context, key string) ([]domain.UsageSummaryRow, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary cache: %w", err)
	}

	var rows []domain.UsageSummaryRow
	if unmarshalErr := json.Unmarshal(payload, &rows); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cached summary: %w", unmarshalErr)
	}

	observability.FromContext(ctx).Debug("summary cache entry loaded",
		observability.String("cache_key", key),
		observability.Int("rows", len(rows)))

	return rows, nil
}

// Set stores summary rows under the key with a TTL.
func (c *SummaryCache) Set(ctx context.Context, key string, rows []domain.UsageSummaryRow, ttl time.Duration) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal summary rows: %w", err)
	}

	if setErr := c.client.Set(ctx, key, payload, ttl).Err(); setErr != nil {
		return fmt.Errorf("failed to store summary cache entry: %w", setErr)
	}

	return nil
}
