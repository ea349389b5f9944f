package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/internal/auth/throttle"
	"github.com/nusalapor/backend/pkg/httpx"
	"github.com/nusalapor/backend/pkg/slogx"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgTokenInvalid       = "Token is invalid or expired"
	msgTokenBlacklisted   = "Token is blacklisted"
	msgRefreshRequired    = "Refresh token is required"
	msgUserNotFound       = "User not found"
	msgAlreadyAssigned    = "User is already assigned as petugas"
	msgMalformedBody      = "Malformed JSON body"
	msgTooManyAttempts    = "Too many login attempts"
	msgUnavailable        = "Service temporarily unavailable"
	msgInternal           = "internal server error"
	msgOfficerOnly        = "You must be a petugas to access this resource."
	msgAdminOnly          = "You must be an admin to access this resource."
)

// errorWriter renders service errors as JSON. Token errors are 401 by
// default; logout passes tokenStatus 400.
type errorWriter struct {
	devErrors   bool
	tokenStatus int
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	l := slogx.FromContext(r.Context())

	var verr *service.ValidationError
	var terr *throttle.ThrottledError

	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, FieldErrorResponse{Error: verr.Fields})

	case errors.Is(err, httpx.ErrBadJSON):
		httpx.WriteError(w, http.StatusBadRequest, msgMalformedBody)

	case errors.As(err, &terr):
		writeThrottled(w, terr)

	case errors.Is(err, throttle.ErrUnavailable):
		l.Error("throttle unavailable", slog.Any("error", err))
		httpx.WriteError(w, http.StatusServiceUnavailable, msgUnavailable)

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)

	case errors.Is(err, service.ErrTokenBlacklisted):
		httpx.WriteError(w, e.tokenCode(), msgTokenBlacklisted)

	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, e.tokenCode(), msgTokenInvalid)

	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "Forbidden")

	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, msgUserNotFound)

	case errors.Is(err, service.ErrAlreadyAssigned):
		httpx.WriteError(w, http.StatusBadRequest, msgAlreadyAssigned)

	default:
		l.Error("request failed", slog.Any("error", err))
		body := ErrorResponse{Error: msgInternal}
		if e.devErrors {
			body.Detail = err.Error()
		}
		httpx.WriteJSON(w, http.StatusInternalServerError, body)
	}
}

func (e errorWriter) tokenCode() int {
	if e.tokenStatus != 0 {
		return e.tokenStatus
	}
	return http.StatusUnauthorized
}

func writeThrottled(w http.ResponseWriter, terr *throttle.ThrottledError) {
	wait := terr.WaitSeconds()
	w.Header().Set("Retry-After", strconv.Itoa(wait))
	httpx.WriteJSON(w, http.StatusTooManyRequests, ThrottledResponse{
		Error:       msgTooManyAttempts,
		Detail:      terr.Detail(),
		WaitSeconds: wait,
	})
}
