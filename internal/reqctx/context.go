package reqctx

import "context"

type ctxKey string

const (
	keyRID     ctxKey = "rid"
	keyActorID ctxKey = "actor_id"
)

// WithRID stores the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns the correlation id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}

// WithActorID stores the actor a request is acting on.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyActorID, id)
}

// ActorID returns the actor id if present.
func ActorID(ctx context.Context) string {
	v, _ := ctx.Value(keyActorID).(string)
	return v
}
