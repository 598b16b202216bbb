package utils

import "context"

type ctxKey string

// ActorCtxKey is the context key under which the authenticated actor id is
// stored by the HTTP auth middleware.
const ActorCtxKey ctxKey = "actor"

// ActorFromContext returns the actor id stored in ctx, or "" when the
// request was not authenticated.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(ActorCtxKey).(string)
	return actor
}

// WithActor returns a child context carrying the given actor id.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorCtxKey, actor)
}
