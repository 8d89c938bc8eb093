package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/tokentoll/internal/observability"
)

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// defaultSummaryTTL bounds staleness of cached report rows.
const defaultSummaryTTL = 60 * time.Second

// UsageReportService serves usage summaries with an optional read-through
// cache for dashboard-style repeated queries.
type UsageReportService struct {
	recorder UsageRecorder
	cache    SummaryCache
	ttl      time.Duration
}

// NewUsageReportService creates a report service. A nil cache disables
// caching; ttl <= 0 selects the default.
func NewUsageReportService(recorder UsageRecorder, cache SummaryCache, ttl time.Duration) *UsageReportService {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &UsageReportService{
		recorder: recorder,
		cache:    cache,
		ttl:      ttl,
	}
}

// UsageSummary returns aggregated usage rows for the filter. Cache failures
// degrade to a direct store query and are never surfaced.
func (s *UsageReportService) UsageSummary(ctx context.Context, filter SummaryFilter) ([]UsageSummaryRow, error) {
	logger := observability.FromContext(ctx)

	key := summaryCacheKey(filter)

	if s.cache != nil {
		rows, err := s.cache.Get(ctx, key)
		if err != nil && !errors.Is(err, ErrCacheMiss) {
			logger.Warn("summary cache get failed, querying store directly",
				observability.Error(err))
		}
		if err == nil {
			logger.Debug("summary cache hit",
				observability.String("cache_key", key),
				observability.Int("rows", len(rows)))
			return rows, nil
		}
	}

	rows, err := s.recorder.QueryUsageSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage summary: %w", err)
	}

	if s.cache != nil {
		if setErr := s.cache.Set(ctx, key, rows, s.ttl); setErr != nil {
			logger.Warn("failed to store summary in cache",
				observability.Error(setErr))
		}
	}

	return rows, nil
}

// summaryCacheKey derives a stable cache key from the filter.
func summaryCacheKey(filter SummaryFilter) string {
	raw := fmt.Sprintf("%s|%d|%d", filter.UserEmail, filter.StartDate.Unix(), filter.EndDate.Unix())
	hash := sha256.Sum256([]byte(raw))
	return "usage-summary:" + hex.EncodeToString(hash[:])
}
