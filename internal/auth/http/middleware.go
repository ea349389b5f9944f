package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/internal/auth/throttle"
	"github.com/nusalapor/backend/pkg/httpx"
	"github.com/nusalapor/backend/pkg/slogx"
)

type ctxKey int

const (
	ctxKeyPrincipal ctxKey = iota
	ctxKeyThrottleKey
)

func principalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(domain.Principal)
	return p, ok
}

func throttleKeyFromContext(ctx context.Context) (string, bool) {
	k, ok := ctx.Value(ctxKeyThrottleKey).(string)
	return k, ok
}

// throttleMiddleware admits or rejects credential attempts through the shared
// sliding window. The key is IP plus the lower-cased field from the JSON body
// (IP only when field is empty). The store being down fails closed.
func throttleMiddleware(limiter *throttle.Limiter, field string, clientIP httpx.KeyExtractor, devErrors bool) httpx.Middleware {
	ew := errorWriter{devErrors: devErrors}

	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			var identifier string
			if field != "" {
				identifier = httpx.PeekJSONField(r, field)
			}
			key := limiter.Key(ip, identifier)

			if err := limiter.Allow(r.Context(), key); err != nil {
				var terr *throttle.ThrottledError
				if errors.As(err, &terr) {
					slogx.FromContext(r.Context()).Warn("throttled",
						slog.String("scope", limiter.Config().Scope),
						slog.String("ip", ip),
						slog.Int("wait_seconds", terr.WaitSeconds()),
					)
				}
				ew.write(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyThrottleKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolvePrincipal loads the principal named by the verified token subject.
// Unknown or inactive principals are treated as unauthenticated.
func resolvePrincipal(roles *service.RoleService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := slogx.FromContext(ctx)

			id, ok := httpx.UserIDFromContext(ctx)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}

			p, err := roles.Resolve(ctx, id)
			if errors.Is(err, service.ErrNotFound) {
				l.Info("token subject not resolvable", slog.String("principal_id", id))
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				httpx.WriteError(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}
			if err != nil {
				errorWriter{}.write(w, r, err)
				return
			}

			ctx = slogx.WithContext(ctx, l.With(slog.String("principal_id", p.ID)))
			ctx = context.WithValue(ctx, ctxKeyPrincipal, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireTier gates on the resolved principal; failure is 403 with message.
func requireTier(t service.Tier, message string) httpx.Middleware {
	return httpx.Require(message, func(r *http.Request) bool {
		p, ok := principalFromContext(r.Context())
		return ok && t.Allows(p)
	})
}
