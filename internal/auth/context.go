package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller as read from a validated token.
type Identity struct {
	UserID        uuid.UUID
	Email         string
	Admin         bool
	TrustedMember bool
}

// Roles returns the casbin subjects held by the identity.
func (i Identity) Roles() []string {
	roles := make([]string, 0, 2)
	if i.Admin {
		roles = append(roles, RoleAdmin)
	}
	if i.TrustedMember {
		roles = append(roles, RoleTrustedMember)
	}
	return roles
}

// ContextWithIdentity returns a new context that carries the authenticated caller.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the authenticated caller from the context, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok || identity.UserID == uuid.Nil {
		return Identity{}, false
	}
	return identity, true
}

// UserIDFromContext returns the caller's user id, or nil for anonymous requests.
func UserIDFromContext(ctx context.Context) *uuid.UUID {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return nil
	}
	id := identity.UserID
	return &id
}
