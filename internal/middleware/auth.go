// Package middleware holds the request-time identity resolver.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/changtoqr/backend/internal/auth"
	"github.com/changtoqr/backend/internal/models"
	"github.com/changtoqr/backend/internal/store"
	"github.com/changtoqr/backend/internal/web"
)

// UserFinder resolves a token subject to a live account.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// BearerToken extracts the token from an Authorization header, or "" when
// the header is absent or not bearer-scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// RequireAuth gates a route behind a verified bearer token. It fails
// closed: missing token, malformed token, bad signature, expired token and
// deleted account each produce their own 401 and the handler never runs.
// On success the resolved user (sans password hash) rides the context.
func RequireAuth(tokens *auth.TokenIssuer, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				web.Error(w, http.StatusUnauthorized, "not authorized, no token")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenMalformed):
					web.Error(w, http.StatusUnauthorized, "not authorized, malformed token")
				case errors.Is(err, auth.ErrTokenSignature):
					web.Error(w, http.StatusUnauthorized, "not authorized, invalid token signature")
				case errors.Is(err, auth.ErrTokenExpired):
					web.Error(w, http.StatusUnauthorized, "not authorized, token expired")
				default:
					web.Error(w, http.StatusUnauthorized, "not authorized, token error")
				}
				return
			}

			// A valid token does not imply the account still exists.
			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					web.Error(w, http.StatusUnauthorized, "not authorized, user not found")
					return
				}
				web.Error(w, http.StatusInternalServerError, "server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}
