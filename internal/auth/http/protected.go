package http

import (
	"net/http"

	"github.com/nusalapor/backend/pkg/httpx"
)

func writeProtected(w http.ResponseWriter, r *http.Request, message string) {
	p, ok := principalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ProtectedResponse{
		Message: message,
		User:    p.Profile(nil),
	})
}

// HandleProtected godoc
//
//	@Summary		Protected endpoint
//	@Description	Any authenticated, active user.
//	@Tags			Protected
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ProtectedResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/v1/auth/protected [get].
func HandleProtected(w http.ResponseWriter, r *http.Request) {
	writeProtected(w, r, "This is a protected endpoint")
}

// HandleProtectedOfficer godoc
//
//	@Summary		Petugas-only endpoint
//	@Tags			Protected
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ProtectedResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/v1/auth/protected/petugas [get].
func HandleProtectedOfficer(w http.ResponseWriter, r *http.Request) {
	writeProtected(w, r, "This is a petugas-only endpoint")
}

// HandleProtectedAdmin godoc
//
//	@Summary		Admin-only endpoint
//	@Tags			Protected
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ProtectedResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/v1/auth/protected/admin [get].
func HandleProtectedAdmin(w http.ResponseWriter, r *http.Request) {
	writeProtected(w, r, "This is an admin-only endpoint")
}
