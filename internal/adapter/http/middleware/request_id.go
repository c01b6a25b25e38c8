package middleware

import (
	"net/http"

	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request id to the context so every log line and
// published event from this request can be correlated. An incoming
// X-Request-ID is honored, otherwise a fresh one is generated.
func (h *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)

		ctx := wrap.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
