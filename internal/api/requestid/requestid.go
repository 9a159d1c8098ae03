// Package requestid tags each request with an id and a logger carrying it.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const Header = "X-Request-ID"

type ctxKey struct{}

// Middleware reuses a well-formed incoming X-Request-ID or mints a new one,
// echoes it on the response and stores it with a request-scoped logger in
// the context (read it back with zerolog.Ctx).
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)

		l := log.With().Str("request_id", id).Logger()
		ctx := context.WithValue(r.Context(), ctxKey{}, id)
		ctx = l.WithContext(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the request id, or "" outside a request.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
