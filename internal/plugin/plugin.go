package plugin

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/davidbz/tokentoll/internal/cache/redis"
	"github.com/davidbz/tokentoll/internal/config"
	"github.com/davidbz/tokentoll/internal/domain"
	"github.com/davidbz/tokentoll/internal/observability"
	"github.com/davidbz/tokentoll/internal/store"
	"github.com/davidbz/tokentoll/internal/tokenizer"
)

// Manifest describes this plugin to the host's extension-point registry.
// It carries no behavior.
type Manifest struct {
	ID   string
	Name string
	Type string
}

// PluginManifest returns the host registration descriptor.
func PluginManifest() Manifest {
	return Manifest{
		ID:   "usage-costs-tracking",
		Name: "Usage Costs Tracking",
		Type: "manifold",
	}
}

// BuildContainer assembles the plugin's dependency graph for the host
// runtime. Schema initialization runs here and aborts startup on failure:
// the plugin cannot operate without its table.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []interface{}{
		config.Load,
		config.ParseDependenciesConfig,
		observability.InitLogger,
		store.Open,
		func(s *store.UsageStore) domain.UsageRecorder { return s },
		domain.NewDefaultPricingResolver,
		tokenizer.NewService,
		func(t *tokenizer.Service) domain.EncoderProvider { return t },
		newSummaryCache,
		newReportService,
		observability.NewEventBus,
		func(bus *observability.EventBus) domain.StatusEmitter { return bus },
		domain.NewTrackerFactory,
	}

	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return nil, fmt.Errorf("failed to provide dependency: %w", err)
		}
	}

	if err := container.Invoke(func(recorder domain.UsageRecorder) error {
		return recorder.EnsureSchema(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize usage schema: %w", err)
	}

	return container, nil
}

// newSummaryCache wires the optional Redis summary cache. An empty address
// disables caching (nil cache).
func newSummaryCache(cfg *config.RedisConfig) domain.SummaryCache {
	if cfg.Addr == "" {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{Addr: cfg.Addr})
	return redis.NewSummaryCache(client)
}

func newReportService(
	recorder domain.UsageRecorder,
	cache domain.SummaryCache,
	cfg *config.RedisConfig,
) *domain.UsageReportService {
	return domain.NewUsageReportService(recorder, cache, cfg.SummaryTTL)
}
