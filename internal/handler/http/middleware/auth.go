package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hc-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hc-portal-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type identityKey struct{}

// AuthRequired rejects requests without a valid access token and stores the
// token's identity on the request context. Run it after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			identity, err := jwt.IdentityFromClaims(claims)
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithIdentity(ctx context.Context, identity jwt.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the authenticated caller. ok is false when the
// server runs without JWT.
func IdentityFromContext(ctx context.Context) (jwt.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(jwt.Identity)
	return identity, ok
}
