package httpx

import "context"

type ctxKey string

const CtxKeyPrincipal ctxKey = "principal"

// Principal is the identity bound to a request once its bearer token has
// been verified and the subject resolved to a stored profile.
type Principal struct {
	ProfileID string
	Email     string
}

// WithPrincipal binds p to ctx. An identity that is already bound wins, so
// running the gate twice never swaps the caller.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if _, ok := PrincipalFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

// PrincipalFromContext returns the bound identity, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	if !ok || p.ProfileID == "" {
		return Principal{}, false
	}
	return p, true
}
