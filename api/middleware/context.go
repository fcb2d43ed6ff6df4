package middleware

import "context"

type contextKey string

const (
	ctxRequestID contextKey = "request_id"
	ctxSessionID contextKey = "session_id"
	ctxUserID    contextKey = "user_id"
)

func valueFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func RequestIDFromContext(ctx context.Context) string {
	return valueFromContext(ctx, ctxRequestID)
}

// SessionIDFromContext returns the device session resolved by Session.
func SessionIDFromContext(ctx context.Context) string {
	return valueFromContext(ctx, ctxSessionID)
}

// UserIDFromContext returns the account id cached in the session, if any.
func UserIDFromContext(ctx context.Context) string {
	return valueFromContext(ctx, ctxUserID)
}

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, ctxRequestID, requestID)
}

// WithSessionID injects the session identifier for downstream handlers.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withValue(ctx, ctxSessionID, sessionID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return withValue(ctx, ctxUserID, userID)
}
