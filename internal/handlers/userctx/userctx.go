package userctx

import (
	"context"

	"github.com/tegarrramadhaaan/timeline/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// Create a new context with the session user
func New(ctx context.Context, u models.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// Extract the session user from the context
func FromContext(ctx context.Context) (models.SessionUser, bool) {
	u, ok := ctx.Value(userKey).(models.SessionUser)
	return u, ok
}
