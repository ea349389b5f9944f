package http

import (
	"net/http"
	"time"

	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/pkg/httpx"
	"github.com/nusalapor/backend/pkg/jwtx"
	"github.com/redis/go-redis/v9"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database, the shared cache (throttle, sessions,
//	@Description	denylist) and that a signing key is loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	cache redis.UniversalClient,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{
			Database: "ok",
			Cache:    "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		degrade := func(field *string, msg string) {
			*field = "error: " + msg
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := st.Ping(r.Context()); err != nil {
			degrade(&checks.Database, err.Error())
		}

		// Login is unusable without the throttle store.
		if cache == nil {
			degrade(&checks.Cache, "not configured")
		} else if err := cache.Ping(r.Context()).Err(); err != nil {
			degrade(&checks.Cache, err.Error())
		}

		if !keys.IsReady() {
			degrade(&checks.Signer, "no keys loaded")
		}

		httpx.WriteJSON(w, statusCode, HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
