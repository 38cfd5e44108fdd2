package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type keyType string

const (
	requestIDKey    keyType = "requestID"
	requestIDHeader         = "X-Request-ID"
)

// ctxWithRequestID adds a request ID to the context
func ctxWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ctxGetRequestID retrieves the request ID from the context, or "" when absent
func ctxGetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// RequestID ensures each request has an ID in context and response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxWithRequestID(r.Context(), id)))
	})
}
