package entity

import "context"

type (
	CtxKeyIP        struct{}
	CtxKeyUser      struct{}
	CtxKeySpectator struct{}
)

func IPFromCtx(ctx context.Context) string {
	ip, ok := ctx.Value(CtxKeyIP{}).(string)
	if !ok {
		return ""
	}

	return ip
}

// UserFromCtx returns the authenticated user placed in the context by the
// auth middleware, or nil for anonymous requests.
func UserFromCtx(ctx context.Context) *AuthUser {
	user, ok := ctx.Value(CtxKeyUser{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// SpectatorFromCtx returns the anonymous spectator session id used to
// deduplicate kudos givers, or "" when the cookie was absent.
func SpectatorFromCtx(ctx context.Context) string {
	sessionID, ok := ctx.Value(CtxKeySpectator{}).(string)
	if !ok {
		return ""
	}

	return sessionID
}
