package reqctx

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// SetRequestID adds the request ID to ctx
func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID retrieves the request ID from ctx, or "" when none was set
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
