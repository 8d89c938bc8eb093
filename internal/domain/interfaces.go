package domain

import (
	"context"
	"time"
)

// StatusEmitter delivers human-readable status updates to the host UI.
// Emission is fire-and-forget: implementations must not block on delivery
// and must not surface delivery errors to the caller.
type StatusEmitter interface {
	// EmitStatus emits a status description with a completion flag.
	EmitStatus(ctx context.Context, description string, done bool)
}

// UsageRecorder persists usage facts and aggregates them for reporting.
type UsageRecorder interface {
	// EnsureSchema idempotently creates the usage table and indexes.
	EnsureSchema(ctx context.Context) error

	// RecordUsage inserts a single usage fact.
	RecordUsage(ctx context.Context, fact *UsageFact) error

	// QueryUsageSummary returns per-user/per-model/per-day aggregates,
	// ordered by user, date, model, currency.
	QueryUsageSummary(ctx context.Context, filter SummaryFilter) ([]UsageSummaryRow, error)
}

// TokenEncoder counts tokens for text under a fixed encoding.
type TokenEncoder interface {
	// Count returns the length of the encoded token sequence.
	Count(text string) int
}

// EncoderProvider selects a token encoder for a model, falling back to a
// default general-purpose encoding when the model is unregistered.
// Selection never fails.
type EncoderProvider interface {
	// EncoderFor returns the encoder appropriate for the given model.
	EncoderFor(ctx context.Context, model string) TokenEncoder
}

// SummaryCache caches usage summary results for repeated reporting queries.
type SummaryCache interface {
	// Get retrieves cached summary rows, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]UsageSummaryRow, error)

	// Set stores summary rows under the key with a TTL.
	Set(ctx context.Context, key string, rows []UsageSummaryRow, ttl time.Duration) error
}
