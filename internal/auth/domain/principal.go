package domain

import "time"

// Principal is an authenticated identity. Elevated roles hang off it as a
// RoleAttachment; admin is the orthogonal Superuser flag.
type Principal struct {
	ID             string
	Email          string
	Username       string
	Name           string
	PhoneEncrypted string // FieldEncryptor output, empty when no phone was given
	PasswordHash   string // hex PBKDF2-HMAC-SHA256
	PasswordSalt   string // base64 of 32 random bytes, unique per principal
	Active         bool
	Staff          bool
	Superuser      bool
	Role           RoleAttachment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p Principal) IsAdmin() bool   { return p.Superuser }
func (p Principal) IsOfficer() bool { return p.Role.Kind == RoleOfficer }

// Profile is the public view of a principal returned by login and /me.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	Title     string    `json:"title,omitempty"`
	IsStaff   bool      `json:"is_staff"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile renders p with an already decrypted phone (nil when absent or
// unreadable).
func (p Principal) Profile(phone *string) Profile {
	return Profile{
		ID:        p.ID,
		Email:     p.Email,
		Username:  p.Username,
		Name:      p.Name,
		Phone:     phone,
		Role:      p.RoleName(),
		Title:     p.Role.Title,
		IsStaff:   p.Staff,
		IsAdmin:   p.Superuser,
		CreatedAt: p.CreatedAt,
	}
}

// RoleName is the highest tier the principal holds.
func (p Principal) RoleName() string {
	switch {
	case p.Superuser:
		return "admin"
	case p.IsOfficer():
		return "petugas"
	default:
		return "user"
	}
}
