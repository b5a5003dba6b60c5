package handlers

import (
	"context"
	"net/http"
)

type contextKey string

const actorKey = contextKey("actor")

// Actor is the authenticated identity every tenant-scoped operation runs as.
// It is bound by the auth middleware; handlers trust it and never accept a
// tenant ID from the request body.
type Actor struct {
	UserID   int
	TenantID int
	Role     string
}

// WithActor binds the actor into the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// GetActor returns the actor bound by the auth middleware.
func GetActor(r *http.Request) Actor {
	if a, ok := r.Context().Value(actorKey).(Actor); ok {
		return a
	}
	return Actor{}
}
