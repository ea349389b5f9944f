package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/nusalapor/backend/pkg/jwtx"
	"github.com/nusalapor/backend/pkg/slogx"
)

// RevocationChecker reports whether an access token jti has been revoked
// ahead of its natural expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type authnOptions struct {
	cookie  string
	revoked RevocationChecker
}

type AuthnOption func(*authnOptions)

// WithTokenCookie accepts the access token from the named cookie when no
// Authorization header is present.
func WithTokenCookie(name string) AuthnOption {
	return func(o *authnOptions) { o.cookie = name }
}

// WithRevocationCheck rejects tokens the checker reports as revoked. Checker
// errors are logged and the token is let through.
func WithRevocationCheck(rc RevocationChecker) AuthnOption {
	return func(o *authnOptions) { o.revoked = rc }
}

// AuthnMiddleware requires a valid access token. Anything else is a 401.
func AuthnMiddleware(v jwtx.Verifier, opts ...AuthnOption) Middleware {
	var o authnOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := bearerToken(r)
			if raw == "" && o.cookie != "" {
				if c, err := r.Cookie(o.cookie); err == nil {
					raw = c.Value
				}
			}
			if raw == "" {
				writeBearerError(w, "Authentication credentials were not provided")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("jwt verify failed", "err", err)
				writeBearerError(w, "Given token not valid for any token type")
				return
			}

			if err := claims.ValidateType(jwtx.TypeAccess); err != nil {
				writeBearerError(w, "Given token not valid for any token type")
				return
			}

			if o.revoked != nil {
				revoked, err := o.revoked.IsRevoked(ctx, claims.ID)
				switch {
				case err != nil:
					log.Warn("access token revocation check failed", "err", err)
				case revoked:
					writeBearerError(w, "Token has been revoked")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if len(authz) < 7 || !strings.EqualFold(authz[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[7:])
}

// RFC 6750 challenge plus our JSON error envelope.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, desc)
}
