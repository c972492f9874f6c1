package auth

import (
	"context"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the authenticated caller attached to a request context by the
// session middleware.
type Identity struct {
	Username string
	IsAdmin  bool
	Address  string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) Identity {
	if v, ok := ctx.Value(identityKey).(Identity); ok {
		return v
	}
	return Identity{}
}

func Username(ctx context.Context) string {
	return FromContext(ctx).Username
}
