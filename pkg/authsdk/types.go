package authsdk

import (
	"time"

	"github.com/nusalapor/backend/pkg/jwtx"
)

// RegisterRequest is the body of POST /v1/auth/register and, with Title, of
// POST /v1/auth/officers.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Title    string `json:"title,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Profile is the public view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"` // "user", "petugas" or "admin"
	Title     string    `json:"title,omitempty"`
	IsStaff   bool      `json:"is_staff"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResponse struct {
	Token TokenPair `json:"token"`
	User  Profile   `json:"user"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type ProtectedResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

type RolePayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Title  string `json:"title"`
}

type AssignRoleResponse struct {
	Message     string      `json:"message"`
	RolePayload RolePayload `json:"role_payload"`
}

type CreateOfficerResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type JWKSResponse jwtx.JWKS
