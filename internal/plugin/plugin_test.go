package plugin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/tokentoll/internal/domain"
	"github.com/davidbz/tokentoll/internal/plugin"
)

func TestPluginManifest(t *testing.T) {
	manifest := plugin.PluginManifest()

	require.Equal(t, "usage-costs-tracking", manifest.ID)
	require.Equal(t, "Usage Costs Tracking", manifest.Name)
	require.Equal(t, "manifold", manifest.Type)
}

func TestEmitterFunc_WrapsStatusEvent(t *testing.T) {
	var captured domain.StatusEvent
	emitter := plugin.EmitterFunc(func(_ context.Context, event domain.StatusEvent) {
		captured = event
	})

	emitter.EmitStatus(context.Background(), "1000 Input Tokens | Completed", true)

	require.Equal(t, "status", captured.Type)
	require.Equal(t, "1000 Input Tokens | Completed", captured.Data.Description)
	require.True(t, captured.Data.Done)
}

func TestEmitterFunc_NilCallbackDropsEvents(t *testing.T) {
	var emitter plugin.EmitterFunc

	require.NotPanics(t, func() {
		emitter.EmitStatus(context.Background(), "dropped", true)
	})
}

func TestBuildContainer(t *testing.T) {
	t.Setenv("USAGE_DB_DRIVER", "sqlite3")
	t.Setenv("USAGE_DB_DSN", "file::memory:?cache=shared")
	t.Setenv("USAGE_REDIS_ADDR", "")

	container, err := plugin.BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(factory *domain.TrackerFactory, service *domain.UsageReportService) {
		require.NotNil(t, factory)
		require.NotNil(t, service)

		tracker := factory.ForRequest(context.Background(), "openai.gpt-4o", "alice@example.com", "chat", nil)
		require.NotNil(t, tracker)
	})
	require.NoError(t, err)
}
