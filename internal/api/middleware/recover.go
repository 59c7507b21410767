package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/convene-events/server/internal/api/respond"
)

// Recover converts handler panics into a generic 500 response so unexpected
// failures never leak internals or kill the connection handler.
func Recover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					zerolog.Ctx(r.Context()).Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Str("method", r.Method).
						Msg("handler panicked")
					respond.Internal(w, r, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
