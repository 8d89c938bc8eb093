package plugin

import (
	"context"

	"github.com/davidbz/tokentoll/internal/domain"
)

// EmitterFunc adapts a host event-channel callback to the status emitter
// contract. The host hands the plugin one callback per request; nil
// callbacks silently drop events.
type EmitterFunc func(ctx context.Context, event domain.StatusEvent)

// EmitStatus wraps the description and done flag in the host wire shape and
// forwards it to the callback.
func (f EmitterFunc) EmitStatus(ctx context.Context, description string, done bool) {
	if f == nil {
		return
	}
	f(ctx, domain.NewStatusEvent(description, done))
}
