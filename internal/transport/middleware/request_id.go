package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/readmemo/vocab-backend/pkg/ctxutil"
)

const RequestIDHeader = "X-Request-Id"

// RequestID assigns each request an identifier, honoring one supplied by the
// client, and echoes it in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
