package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hrpay/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with a correlation identifier, minting one
// when the caller did not send an X-Request-ID. The identifier is echoed on
// the response and travels the context into logs and audit rows.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
