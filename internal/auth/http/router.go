package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/nusalapor/backend/internal/auth/cache"
	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/internal/auth/throttle"
	"github.com/nusalapor/backend/pkg/httpx"
	"github.com/nusalapor/backend/pkg/jwtx"
	"github.com/nusalapor/backend/pkg/slogx"
	"github.com/redis/go-redis/v9"

	_ "github.com/nusalapor/backend/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tune the HTTP surface.
type Options struct {
	BuildVersion string
	CookieSecure bool
	CookieDomain string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration

	// DevErrors adds a "detail" field to 500 responses.
	DevErrors bool

	// RateLimits are the in-process profiles; unset ones use the defaults.
	RateLimits httpx.RateLimits
	// TrustedProxies may set X-Forwarded-For / X-Real-IP. Empty means the
	// peer address is always the client.
	TrustedProxies []netip.Prefix
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys      *jwtx.KeySet
	verifier  jwtx.Verifier
	opts      Options
	clientIP  httpx.KeyExtractor
	startTime time.Time
	logger    *slog.Logger

	store           store.Store
	Redis           redis.UniversalClient
	TokenService    *service.TokenService
	SessionService  *service.SessionService
	RoleService     *service.RoleService
	Denylist        *cache.Denylist
	LoginThrottle   *throttle.Limiter
	RefreshThrottle *throttle.Limiter
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	st store.Store,
	logger *slog.Logger,
	opts Options,
) *Router {
	opts.RateLimits = opts.RateLimits.OrDefaults()

	r := &Router{
		Mux:       http.NewServeMux(),
		keys:      keys,
		verifier:  verifier,
		opts:      opts,
		clientIP:  httpx.NewClientIP(opts.TrustedProxies).Key,
		startTime: time.Now(),
		store:     st,
		logger:    logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerProtected()
	r.registerRoles()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Nusa Lapor Authentication API
//	@version		0.1.0
//	@description	Registration, login, token refresh and role-gated access for the Nusa Lapor citizen reporting backend.
//	@description
//	@description				Tokens are EdDSA (Ed25519) signed JWTs and can be verified with the JWKS endpoint.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authenticated verifies the access token (header or jwt cookie), checks the
// denylist and resolves the principal.
func (r *Router) authenticated(h http.Handler, extra ...httpx.Middleware) http.Handler {
	authnOpts := []httpx.AuthnOption{httpx.WithTokenCookie(accessCookie)}
	if r.Denylist != nil {
		authnOpts = append(authnOpts, httpx.WithRevocationCheck(r.Denylist))
	}

	mws := []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier, authnOpts...),
		resolvePrincipal(r.RoleService),
	}
	return httpx.Chain(h, append(mws, extra...)...)
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		Sessions: r.SessionService,
		Tokens:   r.TokenService,
		Throttle: r.LoginThrottle,
		opts:     r.opts,
	}

	// Credential endpoints share the login sliding window (IP + email).
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			throttleMiddleware(r.LoginThrottle, "email", r.clientIP, r.opts.DevErrors),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			throttleMiddleware(r.LoginThrottle, "email", r.clientIP, r.opts.DevErrors),
		),
	)

	// Refresh has its own scope, keyed by IP only.
	r.Mux.Handle("POST /v1/auth/token/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			throttleMiddleware(r.RefreshThrottle, "", r.clientIP, r.opts.DevErrors),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(r.opts.RateLimits.Moderate, r.clientIP),
		),
	)

	r.Mux.Handle("GET /v1/auth/me",
		r.authenticated(http.HandlerFunc(h.HandleMe),
			httpx.RateLimitByUser(r.opts.RateLimits.Lenient, r.clientIP),
		),
	)
}

func (r *Router) registerProtected() {
	r.Mux.Handle("GET /v1/auth/protected",
		r.authenticated(http.HandlerFunc(HandleProtected),
			httpx.RateLimitByUser(r.opts.RateLimits.Lenient, r.clientIP),
		),
	)
	r.Mux.Handle("GET /v1/auth/protected/petugas",
		r.authenticated(http.HandlerFunc(HandleProtectedOfficer),
			requireTier(service.TierOfficer, msgOfficerOnly),
			httpx.RateLimitByUser(r.opts.RateLimits.Lenient, r.clientIP),
		),
	)
	r.Mux.Handle("GET /v1/auth/protected/admin",
		r.authenticated(http.HandlerFunc(HandleProtectedAdmin),
			requireTier(service.TierAdmin, msgAdminOnly),
			httpx.RateLimitByUser(r.opts.RateLimits.Lenient, r.clientIP),
		),
	)
}

func (r *Router) registerRoles() {
	h := &RolesHandler{Roles: r.RoleService, Sessions: r.SessionService, opts: r.opts}

	r.Mux.Handle("POST /v1/auth/assign-role",
		r.authenticated(http.HandlerFunc(h.HandleAssign),
			requireTier(service.TierAdmin, msgAdminOnly),
			httpx.RateLimitByUser(r.opts.RateLimits.Strict, r.clientIP),
		),
	)
	r.Mux.Handle("POST /v1/auth/officers",
		r.authenticated(http.HandlerFunc(h.HandleCreateOfficer),
			requireTier(service.TierAdmin, msgAdminOnly),
			httpx.RateLimitByUser(r.opts.RateLimits.Strict, r.clientIP),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.opts.RateLimits.Public, r.clientIP),
		),
	)

	// Monitoring systems may poll frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.opts.BuildVersion),
			httpx.RateLimitByIP(r.opts.RateLimits.Lenient, r.clientIP),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.opts.BuildVersion, r.store, r.Redis, r.keys),
			httpx.RateLimitByIP(r.opts.RateLimits.Lenient, r.clientIP),
		),
	)
}
