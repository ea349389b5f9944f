package http

import (
	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/pkg/jwtx"
)

// ErrorResponse is the body of every non-2xx answer with a plain message.
type ErrorResponse struct {
	Error  string `json:"error" example:"Invalid credentials"`
	Detail string `json:"detail,omitempty"`
}

// FieldErrorResponse carries field-level validation messages.
type FieldErrorResponse struct {
	Error map[string][]string `json:"error"`
}

// ThrottledResponse is returned with 429.
type ThrottledResponse struct {
	Error       string `json:"error" example:"Too many login attempts"`
	Detail      string `json:"detail" example:"Please try again after 45s"`
	WaitSeconds int    `json:"wait_seconds" example:"45"`
}

type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully"`
}

type LoginRequest struct {
	// Email or username.
	Email    string `json:"email" example:"warga@example.com"`
	Password string `json:"password" example:"rahasia123"`
}

type LoginResponse struct {
	Token domain.TokenPair `json:"token"`
	User  domain.Profile   `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access,omitempty"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type ProtectedResponse struct {
	Message string         `json:"message" example:"This is a protected endpoint"`
	User    domain.Profile `json:"user"`
}

type AssignRoleRequest struct {
	UserID    string `json:"user_id" example:"0b6a3c9e-5f7e-4d3a-9c1b-2a4e6f8d0c12"`
	RoleTitle string `json:"role_title,omitempty" example:"Petugas Lapangan"`
}

type RolePayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role" example:"petugas"`
	Title  string `json:"title" example:"Petugas"`
}

type AssignRoleResponse struct {
	Message     string      `json:"message" example:"User assigned as petugas successfully"`
	RolePayload RolePayload `json:"role_payload"`
}

type CreateOfficerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Title    string `json:"title,omitempty"`
}

type CreateOfficerResponse struct {
	Message string         `json:"message" example:"Petugas created successfully"`
	User    domain.Profile `json:"user"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type JWKSResponse jwtx.JWKS
