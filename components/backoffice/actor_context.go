package backoffice

import "context"

// ActorContext identifies who is driving a mutation, for audit trails.
type ActorContext struct {
	ActorID string
	Branch  string
}

type actorContextKey struct{}

// ContextWithActor stores the actor on the provided context.
func ContextWithActor(ctx context.Context, actor ActorContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFrom extracts the actor from the context, if present.
func ActorFrom(ctx context.Context) ActorContext {
	if ctx == nil {
		return ActorContext{}
	}
	if actor, ok := ctx.Value(actorContextKey{}).(ActorContext); ok {
		return actor
	}
	return ActorContext{}
}
