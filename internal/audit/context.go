// ABOUTME: Context propagation of the acting principal for audit events

package audit

import "context"

type contextKey string

const actorContextKey contextKey = "audit_actor"

// WithActor returns a context carrying the acting principal's identifier.
// The HTTP layer sets this after authentication; controllers read it when
// emitting events.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFrom returns the acting principal from the context, or "system" when
// none was set (background jobs, tests).
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorContextKey).(string); ok && actor != "" {
		return actor
	}
	return "system"
}
