// Package authctx carries the authenticated user through the request
// context, keeping handlers free of JWT details.
package authctx

import (
	"context"

	"github.com/alamin00006/business-management/internal/domain"
)

type ctxKey int

const userKey ctxKey = iota

// CurrentUser is the identity extracted from a verified access token.
type CurrentUser struct {
	ID    int64
	Email string
	Role  domain.UserRole
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// FromContext returns the authenticated user, or nil when the request
// never passed the auth middleware.
func FromContext(ctx context.Context) *CurrentUser {
	user, ok := ctx.Value(userKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &user
}
