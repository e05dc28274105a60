package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// contextKey keeps our context values from colliding with other packages'.
type contextKey string

// TraceIDContextKey is the context key for the request trace ID. The HTTP
// RequestID middleware stores the request ID under it; log records pick it
// up through the trace handler.
const TraceIDContextKey contextKey = "trace_id"

// WithTraceID returns a context carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}

// EnsureTraceID attaches a fresh UUID trace ID when ctx has none. Entry
// points that do not pass through the RequestID middleware, like the CLI,
// use this so their log records still correlate.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, uuid.New().String())
	}
	return ctx
}
