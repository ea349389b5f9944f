package http

import (
	"net/http"
	"strings"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/pkg/httpx"
)

// RolesHandler serves the admin-only role management endpoints.
type RolesHandler struct {
	Roles    *service.RoleService
	Sessions *service.SessionService

	opts Options
}

// HandleAssign godoc
//
//	@Summary		Assign petugas role
//	@Description	Promotes an existing user to petugas (officer) and marks them staff.
//	@Description	The title defaults to "Petugas". Assigning the same user twice is an error.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		AssignRoleRequest	true	"Target user"
//	@Success		200		{object}	AssignRoleResponse
//	@Failure		400		{object}	ErrorResponse	"Missing user_id or already assigned"
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"User not found"
//	@Router			/v1/auth/assign-role [post].
func (h *RolesHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ew := errorWriter{devErrors: h.opts.DevErrors}

	var req AssignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ew.write(w, r, err)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		verr := &service.ValidationError{}
		verr.Add("user_id", "This field is required.")
		ew.write(w, r, verr)
		return
	}

	p, err := h.Roles.AssignOfficer(r.Context(), req.UserID, req.RoleTitle)
	if err != nil {
		ew.write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, AssignRoleResponse{
		Message:     "User assigned as petugas successfully",
		RolePayload: rolePayload(p),
	})
}

// HandleCreateOfficer godoc
//
//	@Summary		Create petugas
//	@Description	Registers a new account that is a staff petugas from the start.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateOfficerRequest	true	"New petugas"
//	@Success		201		{object}	CreateOfficerResponse
//	@Failure		400		{object}	FieldErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/v1/auth/officers [post].
func (h *RolesHandler) HandleCreateOfficer(w http.ResponseWriter, r *http.Request) {
	ew := errorWriter{devErrors: h.opts.DevErrors}

	var req CreateOfficerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ew.write(w, r, err)
		return
	}

	p, err := h.Roles.CreateOfficer(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
		Phone:    req.Phone,
	}, req.Title)
	if err != nil {
		ew.write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, CreateOfficerResponse{
		Message: "Petugas created successfully",
		User:    h.Sessions.Profile(r.Context(), p),
	})
}

func rolePayload(p domain.Principal) RolePayload {
	return RolePayload{
		UserID: p.ID,
		Role:   p.RoleName(),
		Title:  p.Role.Title,
	}
}
