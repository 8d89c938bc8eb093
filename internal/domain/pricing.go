package domain

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/davidbz/tokentoll/internal/observability"
)

// PricingResolver maps free-form model names to the best-fit pricing record.
// The table is fixed at construction; reloading pricing means constructing a
// new resolver. Resolution results are memoized per distinct model name.
type PricingResolver struct {
	table map[string]PricingRecord
	keys  []string // sorted; equal-length prefix ties resolve to the smallest key

	mu   sync.RWMutex
	memo map[string]resolution
}

type resolution struct {
	key    string
	record PricingRecord
	found  bool
}

// NewPricingResolver creates a resolver over a copy of the given table.
// Keys are canonicalized to lowercase.
func NewPricingResolver(table map[string]PricingRecord) *PricingResolver {
	copied := make(map[string]PricingRecord, len(table))
	keys := make([]string, 0, len(table))

	for key, record := range table {
		key = strings.ToLower(strings.TrimSpace(key))
		copied[key] = record
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &PricingResolver{
		table: copied,
		keys:  keys,
		memo:  make(map[string]resolution),
	}
}

// NewDefaultPricingResolver creates a resolver over the built-in table.
func NewDefaultPricingResolver() *PricingResolver {
	return NewPricingResolver(DefaultPricingTable())
}

// Resolve returns the pricing key and record best matching the raw model
// name. A miss is not an error: it returns (UnknownModelKey, zero record,
// false) and callers must treat the zero record as all-zero pricing.
func (r *PricingResolver) Resolve(ctx context.Context, rawModel string) (string, PricingRecord, bool) {
	r.mu.RLock()
	cached, ok := r.memo[rawModel]
	r.mu.RUnlock()
	if ok {
		return cached.key, cached.record, cached.found
	}

	key, record, found := r.resolve(ctx, rawModel)

	r.mu.Lock()
	r.memo[rawModel] = resolution{key: key, record: record, found: found}
	r.mu.Unlock()

	return key, record, found
}

func (r *PricingResolver) resolve(ctx context.Context, rawModel string) (string, PricingRecord, bool) {
	logger := observability.FromContext(ctx)

	model := normalizeModelName(rawModel, false)

	if record, ok := r.table[model]; ok {
		logger.Debug("pricing resolved by exact match",
			observability.String("pricing_key", model))
		return model, record, true
	}

	if key, ok := r.findBestMatch(model, false); ok {
		logger.Debug("pricing resolved by longest prefix",
			observability.String("pricing_key", key))
		return key, r.table[key], true
	}

	if key, ok := r.findBestMatch(model, true); ok {
		logger.Debug("pricing resolved with provider prefix stripped",
			observability.String("pricing_key", key))
		return key, r.table[key], true
	}

	logger.Debug("no pricing data found for model",
		observability.String("model", rawModel))
	return UnknownModelKey, PricingRecord{}, false
}

// findBestMatch scans the whole table for the longest key that is a prefix
// of the query. Iteration over the sorted key list makes equal-length ties
// deterministic: the lexicographically smallest key wins.
func (r *PricingResolver) findBestMatch(query string, stripPrefix bool) (string, bool) {
	normalizedQuery := normalizeModelName(query, stripPrefix)

	bestKey := ""
	bestLen := 0

	for _, key := range r.keys {
		normalizedKey := normalizeModelName(key, stripPrefix)
		if !strings.HasPrefix(normalizedQuery, normalizedKey) {
			continue
		}
		if len(normalizedKey) > bestLen {
			bestLen = len(normalizedKey)
			bestKey = key
		}
	}

	if bestKey == "" {
		return "", false
	}
	return bestKey, true
}

// normalizeModelName lowercases and trims a model name, optionally removing
// the "provider." qualifier (text before the first dot).
func normalizeModelName(name string, stripPrefix bool) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if stripPrefix {
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
	}
	return name
}
