package httpx

import (
	"context"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
)

// requestSessionKey is an unexported context key type to avoid collisions across packages.
type requestSessionKey struct{}

func withRequestSession(ctx context.Context, rs *RequestSession) context.Context {
	if rs == nil {
		return ctx
	}
	return context.WithValue(ctx, requestSessionKey{}, rs)
}

// RequestSessionFrom returns the session attached by SessionGate and a boolean indicating presence.
func RequestSessionFrom(ctx context.Context) (*RequestSession, bool) {
	rs, ok := ctx.Value(requestSessionKey{}).(*RequestSession)
	return rs, ok && rs != nil
}

// CurrentUser returns the signed-in profile, or nil for anonymous and token-only sessions.
func CurrentUser(ctx context.Context) *domainauth.UserProfile {
	rs, ok := RequestSessionFrom(ctx)
	if !ok {
		return nil
	}
	return rs.Manager.User()
}
