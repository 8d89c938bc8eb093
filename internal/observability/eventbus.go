package observability

import (
	"context"
)

// EventBus is a logging-backed event sink. It stands in for the host's
// event-emission channel when none is provided: status updates still land
// in the logs instead of disappearing.
type EventBus struct{}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	attrs := make([]interface{}, 0, len(data)*2)
	for k, v := range data {
		attrs = append(attrs, k, v)
	}

	FromContext(ctx).Sugar().Infow(eventType, attrs...)
}

// EmitStatus emits a status update event. Implements the status emitter
// contract expected by the tracking coordinator.
func (e *EventBus) EmitStatus(ctx context.Context, description string, done bool) {
	e.Publish(ctx, "status", map[string]interface{}{
		"description": description,
		"done":        done,
	})
}
