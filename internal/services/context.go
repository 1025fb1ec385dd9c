package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/user"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// CurrentUser is the authenticated identity attached to a request by the
// auth middleware.
type CurrentUser struct {
	ID             uuid.UUID
	Email          string
	Name           string
	Role           user.Role
	Specialization string
}

func WithCurrentUser(ctx context.Context, u CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

func CurrentUserFromContext(ctx context.Context) (CurrentUser, bool) {
	u, ok := ctx.Value(currentUserKey).(CurrentUser)
	return u, ok
}
