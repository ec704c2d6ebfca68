package requestcontext

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey type for context keys to avoid collisions
type ContextKey string

// RequestIDKey is the context key for the request ID
const RequestIDKey ContextKey = "request_id"

// NewRequestID returns a fresh request ID
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a copy of ctx carrying requestID. Blank IDs are ignored.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, or ""
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}
