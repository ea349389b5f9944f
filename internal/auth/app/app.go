package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nusalapor/backend/internal/auth/cache"
	httpapi "github.com/nusalapor/backend/internal/auth/http"
	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/internal/auth/store/drivers/postgres"
	"github.com/nusalapor/backend/internal/auth/store/drivers/sqlite"
	"github.com/nusalapor/backend/internal/auth/throttle"
	"github.com/nusalapor/backend/pkg/cryptox"
	"github.com/nusalapor/backend/pkg/httpx"
	"github.com/nusalapor/backend/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the auth service and all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	redis redis.UniversalClient
	keys  *AuthKeys

	tokenService        *service.TokenService
	sessionService      *service.SessionService
	roleService         *service.RoleService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService
	denylist            *cache.Denylist
	loginThrottle       *throttle.Limiter
	refreshThrottle     *throttle.Limiter

	server *http.Server
	router *httpapi.Router

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "nusalapor-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initRedis(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	keys, err := InitAuthKeys(app.cfg, app.logger)
	if err != nil {
		app.closeStores()
		return nil, fmt.Errorf("failed to initialize keys: %w", err)
	}
	app.keys = keys

	app.initServices()

	if err := app.seedSuperuser(ctx); err != nil {
		app.closeStores()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		app.closeStores()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application. Later calls return the
// first result.
func (app *Application) Shutdown() error {
	app.shutdownOnce.Do(func() {
		app.shutdownErr = app.shutdown()
	})
	return app.shutdownErr
}

func (app *Application) shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) closeStores() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	_ = app.db.Close()
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.Database.Driver {
	case "postgres":
		db, err = postgres.Open(ctx, app.cfg.Database.DSN)
	default:
		db, err = sqlite.NewStore("file:" + app.cfg.Database.File + "?_pragma=journal_mode(WAL)")
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.Database.Driver)
	return nil
}

// initRedis connects the shared cache holding throttle windows, sessions and
// the access-token denylist.
func (app *Application) initRedis(ctx context.Context) error {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    app.cfg.Redis.Addrs,
		Username: app.cfg.Redis.Username,
		Password: app.cfg.Redis.Password,
		DB:       app.cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client

	app.logger.Info("redis connected", "addrs", app.cfg.Redis.Addrs)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	creds := &service.Credentials{
		Hasher: cryptox.NewPasswordHasher(app.cfg.PasswordIterations),
		Fields: app.keys.Fields,
	}

	app.denylist = cache.NewDenylist(app.redis)

	app.tokenService = &service.TokenService{
		Signer:     app.keys.Signer,
		Verifier:   app.keys.Verifier,
		Store:      app.db,
		Denylist:   app.denylist,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.Tokens.AccessTTL,
		RefreshTTL: app.cfg.Tokens.RefreshTTL,
	}

	app.sessionService = &service.SessionService{
		Store:       app.db,
		Credentials: creds,
		Tokens:      app.tokenService,
		Sessions:    cache.NewSessions(app.redis, app.cfg.Tokens.RefreshTTL),
	}
	app.roleService = &service.RoleService{Store: app.db, Credentials: creds}
	app.bootstrapService = &service.BootstrapService{Store: app.db, Credentials: creds}

	app.loginThrottle = throttle.New(app.redis, throttle.Config{
		Scope:  "login",
		Limit:  app.cfg.Throttle.LoginLimit,
		Window: app.cfg.Throttle.LoginWindow,
	})
	app.refreshThrottle = throttle.New(app.redis, throttle.Config{
		Scope:  "refresh",
		Limit:  app.cfg.Throttle.RefreshLimit,
		Window: app.cfg.Throttle.RefreshWindow,
	})

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) seedSuperuser(ctx context.Context) error {
	su := app.cfg.Superuser
	if !su.Enabled() {
		return nil
	}

	ctx = slogx.WithContext(ctx, app.logger)
	if _, err := app.bootstrapService.EnsureSuperuser(ctx,
		service.SuperuserInput(su.Email, su.Username, su.Password),
	); err != nil {
		return fmt.Errorf("failed to seed superuser: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	proxies, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		app.db,
		app.logger,
		httpapi.Options{
			BuildVersion: BuildVersion,
			CookieSecure: app.cfg.Cookie.Secure,
			CookieDomain: app.cfg.Cookie.Domain,
			AccessTTL:    app.cfg.Tokens.AccessTTL,
			RefreshTTL:   app.cfg.Tokens.RefreshTTL,
			DevErrors:    app.cfg.IsDev(),

			RateLimits:     app.cfg.RateLimits.Profiles(),
			TrustedProxies: proxies,
		},
	)

	router.Redis = app.redis
	router.TokenService = app.tokenService
	router.SessionService = app.sessionService
	router.RoleService = app.roleService
	router.Denylist = app.denylist
	router.LoginThrottle = app.loginThrottle
	router.RefreshThrottle = app.refreshThrottle
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
