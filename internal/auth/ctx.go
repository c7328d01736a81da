package auth

import (
	"context"

	"github.com/changtoqr/backend/internal/models"
)

type ctxKey int

const userKey ctxKey = 0

// WithUser attaches a resolved identity to the context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the identity attached by the auth middleware, if any.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}
