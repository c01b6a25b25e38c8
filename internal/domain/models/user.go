package models

import (
	"context"
	"time"

	"github.com/Harish01234/vahanseva/internal/domain/types"
	"github.com/Harish01234/vahanseva/pkg/uuid"
)

// User is a customer or rider account. VehicleDetails is free text
// describing the rider's vehicle and stays empty for customers.
type User struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Role           types.UserRole `json:"role"`
	VehicleDetails string         `json:"vehicle_details,omitempty"`
	IsActive       bool           `json:"is_active"`
	Location       *Location      `json:"location,omitempty"`
	PasswordHash   string         `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at,omitzero"`
}

// AnonymousUser is the sentinel for unauthenticated requests.
var anonymousUser = &User{}

func AnonymousUser() *User {
	return anonymousUser
}

func (u *User) IsAnonymous() bool {
	return u == anonymousUser
}

type userCtxKey struct{}

var userKey = userCtxKey{}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	if u, ok := ctx.Value(userKey).(*User); ok {
		return u
	}
	return nil
}
