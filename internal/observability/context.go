package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey holds the unique request identifier.
	RequestIDKey contextKey = "request_id"

	// UserEmailKey holds the user email for this request.
	UserEmailKey contextKey = "user_email"

	// ModelKey holds the model name for this request.
	ModelKey contextKey = "model"

	// TaskKey holds the task label for this request.
	TaskKey contextKey = "task"
)

// WithRequestID injects request ID into context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserEmail injects user email into context.
func WithUserEmail(ctx context.Context, userEmail string) context.Context {
	return context.WithValue(ctx, UserEmailKey, userEmail)
}

// WithModel injects model name into context.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, ModelKey, model)
}

// WithTask injects task label into context.
func WithTask(ctx context.Context, task string) context.Context {
	return context.WithValue(ctx, TaskKey, task)
}

// GetRequestID extracts request ID from context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserEmail extracts user email from context.
func GetUserEmail(ctx context.Context) string {
	if userEmail, ok := ctx.Value(UserEmailKey).(string); ok {
		return userEmail
	}
	return ""
}

// GetModel extracts model name from context.
func GetModel(ctx context.Context) string {
	if model, ok := ctx.Value(ModelKey).(string); ok {
		return model
	}
	return ""
}

// GetTask extracts task label from context.
func GetTask(ctx context.Context) string {
	if task, ok := ctx.Value(TaskKey).(string); ok {
		return task
	}
	return ""
}

// GenerateRequestID generates a unique request identifier (UUID).
func GenerateRequestID() string {
	return uuid.New().String()
}

// WithRequestScope seeds a fresh request ID plus the per-request tracking
// fields into the context. Called once per tracked request by the host glue.
func WithRequestScope(ctx context.Context, userEmail, model, task string) context.Context {
	ctx = WithRequestID(ctx, GenerateRequestID())
	ctx = WithUserEmail(ctx, userEmail)
	ctx = WithModel(ctx, model)
	return WithTask(ctx, task)
}
