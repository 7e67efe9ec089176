package session

import (
	"context"
	"time"
)

// Identity is the signed-in admin. ID is unique per login and keys the
// server side workspace of that browser session.
type Identity struct {
	ID        string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
