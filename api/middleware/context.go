package middleware

import (
	"context"

	"github.com/mariagaitan/condoflow-backend/internal/actor"
)

type contextKey string

const ctxActor contextKey = "actor"

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, act actor.Actor) context.Context {
	return context.WithValue(ctx, ctxActor, act)
}

// ActorFromContext returns the actor seeded by the auth middleware.
func ActorFromContext(ctx context.Context) (actor.Actor, bool) {
	if ctx == nil {
		return actor.Actor{}, false
	}
	act, ok := ctx.Value(ctxActor).(actor.Actor)
	return act, ok
}
