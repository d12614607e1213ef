// Package userctx carries the authenticated user through request contexts.
// Handlers and services read the user from the context instead of any
// ambient session state.
package userctx

import "context"

type contextKey struct{}

// WithUserID returns a context carrying the user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext extracts the user id set by the session middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}
