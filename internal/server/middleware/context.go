package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// ContextKeyUserID holds the authenticated user's id in the request context.
const ContextKeyUserID contextKey = "user_id"

// WithUserID returns a context carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// UserIDFromContext returns the authenticated user's id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return id, ok
}
