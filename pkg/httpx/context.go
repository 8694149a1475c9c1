package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's id, set by the session
	// gate and read by rate limiters and handlers.
	CtxKeyUserID ctxKey = "user_id"

	// CtxKeyToken carries the raw bearer token backing the request, needed
	// by logout, refresh and the password-change sibling revocation.
	CtxKeyToken ctxKey = "token"
)

// UserIDFromContext returns the authenticated user id, or "" when the
// request never passed the session gate.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// ContextWithUserID attaches the authenticated user id to the context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// TokenFromContext returns the bearer token backing the request, or "".
func TokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyToken).(string); ok {
		return v
	}
	return ""
}

// ContextWithToken attaches the presented bearer token to the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxKeyToken, token)
}
