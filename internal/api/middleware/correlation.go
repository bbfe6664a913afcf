package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// CorrelationHeader is read from requests and echoed on every response.
const CorrelationHeader = "X-Correlation-ID"

// maxCorrelationIDLen caps client-supplied ids before they reach the logs.
const maxCorrelationIDLen = 128

// CorrelationID stores a per-request id on the context and echoes it back.
// A missing or oversized X-Correlation-ID header is replaced by a new UUID.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationHeader)
		if id == "" || len(id) > maxCorrelationIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), correlationIDKey, id)))
	})
}

// GetCorrelationID returns the id stored by CorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	v, _ := ctx.Value(correlationIDKey).(string)
	return v
}

// Logger returns base annotated with the request's correlation id.
func Logger(ctx context.Context, base *zap.Logger) *zap.Logger {
	if id := GetCorrelationID(ctx); id != "" {
		return base.With(zap.String("correlation_id", id))
	}
	return base
}
