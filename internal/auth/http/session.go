package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/internal/auth/throttle"
	"github.com/nusalapor/backend/pkg/httpx"
	"github.com/nusalapor/backend/pkg/slogx"
)

// SessionHandler serves register, login, refresh, logout and the caller's
// profile.
type SessionHandler struct {
	Sessions *service.SessionService
	Tokens   *service.TokenService
	Throttle *throttle.Limiter

	opts Options
}

func (h *SessionHandler) errs() errorWriter {
	return errorWriter{devErrors: h.opts.DevErrors}
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates a plain user. The phone number is optional and stored encrypted.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.RegisterInput	true	"New account"
//	@Success		201		{object}	MessageResponse
//	@Failure		400		{object}	FieldErrorResponse	"Validation or uniqueness failure"
//	@Failure		429		{object}	ThrottledResponse
//	@Router			/v1/auth/register [post].
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.errs().write(w, r, err)
		return
	}

	if _, err := h.Sessions.Register(r.Context(), in); err != nil {
		h.errs().write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, MessageResponse{Message: "User registered successfully"})
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Verifies email (or username) and password. On success returns a token pair and
//	@Description	the profile, sets the HTTP-only "jwt" and "sessionid" cookies and resets the
//	@Description	throttle window for this IP and identifier.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorResponse	"Malformed body"
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	ThrottledResponse
//	@Router			/v1/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errs().write(w, r, err)
		return
	}

	res, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.errs().write(w, r, err)
		return
	}

	if key, ok := throttleKeyFromContext(ctx); ok && h.Throttle != nil {
		if err := h.Throttle.Reset(ctx, key); err != nil {
			l.Warn("failed to reset login throttle", slog.Any("error", err))
		}
	}

	h.opts.setAccessCookie(w, res.Tokens.Access)
	h.opts.setSessionCookie(w, res.SessionID)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token: res.Tokens,
		User:  res.Profile,
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh access token
//	@Description	Exchanges a valid refresh token for a new access token. When the previous access
//	@Description	token is supplied (body, bearer header or "jwt" cookie) its identifier is denylisted.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	RefreshResponse
//	@Failure		400		{object}	ErrorResponse	"Missing refresh token"
//	@Failure		401		{object}	ErrorResponse	"Invalid, expired or blacklisted refresh token"
//	@Failure		429		{object}	ThrottledResponse
//	@Router			/v1/auth/token/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errs().write(w, r, err)
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		httpx.WriteError(w, http.StatusBadRequest, msgRefreshRequired)
		return
	}

	old := req.Access
	if old == "" {
		old = presentedAccess(r)
	}

	access, err := h.Tokens.Refresh(r.Context(), req.Refresh, old)
	if err != nil {
		h.errs().write(w, r, err)
		return
	}

	h.opts.setAccessCookie(w, access)
	httpx.WriteJSON(w, http.StatusOK, RefreshResponse{Access: access})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Blacklists the refresh token, drops the server-side session and clears cookies.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LogoutRequest	true	"Refresh token"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse	"Missing, invalid or already blacklisted token"
//	@Router			/v1/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ew := h.errs()
	ew.tokenStatus = http.StatusBadRequest

	var req LogoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ew.write(w, r, err)
		return
	}
	if strings.TrimSpace(req.Refresh) == "" {
		httpx.WriteError(w, http.StatusBadRequest, msgRefreshRequired)
		return
	}

	if err := h.Sessions.Logout(r.Context(), req.Refresh, cookieValue(r, sessionCookie)); err != nil {
		ew.write(w, r, err)
		return
	}

	h.opts.clearCookies(w)
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "User logged out successfully"})
}

// HandleMe godoc
//
//	@Summary		Current profile
//	@Tags			Session
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	domain.Profile
//	@Failure		401	{object}	ErrorResponse
//	@Router			/v1/auth/me [get].
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.Sessions.Profile(r.Context(), p))
}

// presentedAccess returns the access token from the Authorization header or
// the jwt cookie.
func presentedAccess(r *http.Request) string {
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return cookieValue(r, accessCookie)
}
