package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// errNoToken covers every shape of missing credential: no Authorization
// header, a non-Bearer scheme, or an empty token after the scheme.
var errNoToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// authenticated username in a request context — no collisions with other
// packages that might also stash a "username" value.
type contextKey string

const usernameKey contextKey = "username"

// RequireAuth is the authorization gate for protected routes.
//
// Each request is evaluated independently: extract the bearer token from
// the Authorization header, validate signature and expiry, and on success
// store the subject username in the request context for downstream
// handlers. Any failure — missing header, malformed header, bad signature,
// expired token — produces the same 401 response, so a caller cannot tell
// which check tripped.
//
// The subject is NOT re-checked against the user store here. A token is
// trusted as self-contained for its full 7-day lifetime; an account deleted
// after issuance keeps passing the gate until the token expires, and
// handlers that need the live record surface their own 404.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractUsername(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized","message":"valid authentication required"}`)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext retrieves the authenticated username set by
// RequireAuth. Returns ("", false) on an unauthenticated request.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// extractUsername reads "Authorization: Bearer <token>" and validates the
// token. The scheme comparison is case-insensitive per RFC 7235.
func extractUsername(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errNoToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errNoToken
	}

	return tokens.Validate(token)
}
