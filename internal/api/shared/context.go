package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/taskledger/taskledger-api/internal/domain"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// ActorContextKey is the context key for the authenticated actor
	ActorContextKey ContextKey = "actor"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID adds a trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, ActorContextKey, actor)
}

// ActorFromContext retrieves the authenticated actor from the context.
// Returns nil when no actor is present (unauthenticated request).
func ActorFromContext(ctx context.Context) *domain.Actor {
	actor, ok := ctx.Value(ActorContextKey).(*domain.Actor)
	if !ok {
		return nil
	}
	return actor
}

// generateTraceID creates a random trace ID for request tracking.
// Returns a 32-character hex string (16 bytes).
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is a platform problem worth surfacing, but
		// requests still need some identifier.
		slog.Error("failed to generate trace ID", "error", err)
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b)
}
