package events

import "context"

type ctxSessionKey struct{}

// ContextWithSessionID tags a context with the session an operation belongs
// to, so downstream publishers can attribute their events.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxSessionKey{}, id)
}

// SessionIDFromContext returns the session ID the context was tagged with,
// or "" when untagged.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxSessionKey{}).(string)
	return id
}
