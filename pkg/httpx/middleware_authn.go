package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/moneymanager/pkg/jwtx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
)

const bearerPrefix = "Bearer "

// Resolver maps a verified token subject to the identity of the caller.
type Resolver func(ctx context.Context, subject string) (Principal, error)

// AuthnMiddleware binds the caller's identity to the request context when a
// valid bearer token is presented. It never rejects: requests with no token,
// a foreign scheme, a bad token or an unknown subject continue anonymously
// and RequireIdentity decides what is protected.
func AuthnMiddleware(v jwtx.Verifier, resolve Resolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if _, bound := PrincipalFromContext(ctx); bound {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("bearer token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			p, err := resolve(ctx, claims.Subject)
			if err != nil {
				log.Warn("bearer subject not resolved", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithPrincipal(ctx, p)
			ctx = slogx.WithProfileID(ctx, p.ProfileID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects requests that reach it without a bound identity.
func RequireIdentity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				writeBearerError(w, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
// Any other scheme is ignored.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(authz[len(bearerPrefix):])
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
