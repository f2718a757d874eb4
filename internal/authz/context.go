package authz

import "context"

type userContextKey struct{}

// ContextWithUser stores the authenticated user in context. Identity is
// always request-scoped; there is deliberately no process-global
// current-user accessor anywhere in the codebase.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from context. It
// returns nil when the request is unauthenticated.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
