package observability_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/tokentoll/internal/observability"
)

func TestWithRequestScope(t *testing.T) {
	ctx := observability.WithRequestScope(context.Background(),
		"alice@example.com", "openai.gpt-4o", "chat")

	requestID := observability.GetRequestID(ctx)
	require.NotEmpty(t, requestID)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)

	require.Equal(t, "alice@example.com", observability.GetUserEmail(ctx))
	require.Equal(t, "openai.gpt-4o", observability.GetModel(ctx))
	require.Equal(t, "chat", observability.GetTask(ctx))
}

func TestGettersOnEmptyContext(t *testing.T) {
	ctx := context.Background()

	require.Empty(t, observability.GetRequestID(ctx))
	require.Empty(t, observability.GetUserEmail(ctx))
	require.Empty(t, observability.GetModel(ctx))
	require.Empty(t, observability.GetTask(ctx))
}

func TestFromContext(t *testing.T) {
	ctx := observability.WithRequestScope(context.Background(),
		"alice@example.com", "openai.gpt-4o", "chat")

	require.NotNil(t, observability.FromContext(ctx))
	require.NotNil(t, observability.FromContext(context.Background()))
}

func TestEventBus_EmitStatus(t *testing.T) {
	bus := observability.NewEventBus()

	require.NotPanics(t, func() {
		bus.EmitStatus(context.Background(), "1 Input Tokens | Completed", true)
	})
}
