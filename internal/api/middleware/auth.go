package middleware

import (
	"context"
	"net/http"

	"github.com/convene-events/server/internal/api/respond"
	"github.com/convene-events/server/internal/auth"
)

type contextKeyIdentity string

const identityKey contextKeyIdentity = "identity"

// RequireAuth validates the bearer token and attaches the decoded identity to
// the request context. The claims are trusted as issued; the user store is
// not consulted here.
func RequireAuth(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "Access token required", err)
				return
			}

			identity, err := tokens.Validate(token)
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "Invalid or expired token", err)
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOrganizer rejects requests whose identity's role claim is not
// organizer. It must run after RequireAuth. A role demoted after token
// issuance still passes until the token expires.
func RequireOrganizer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if !auth.IsOrganizer(identity) {
				respond.Error(w, r, http.StatusForbidden, "Only organizers can perform this action", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithIdentity attaches an authenticated identity to a context.
func ContextWithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the authenticated identity from the request
// context. Returns nil for unauthenticated requests.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	if ctx == nil {
		return nil
	}
	if identity, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return identity
	}
	return nil
}
