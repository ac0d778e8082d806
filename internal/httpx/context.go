package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userEmailKey contextKey = "userEmail"
	requestIDKey contextKey = "requestID"
)

// UserEmailFrom retrieves the authenticated user's email from the
// request context, or "" for anonymous requests.
func UserEmailFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userEmailKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUser(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
