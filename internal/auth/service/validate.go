package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nusalapor/backend/internal/auth/domain"
)

const (
	maxUsernameLength = 25
	maxNameLength     = 100
	minPasswordLength = 8

	msgRequired = "This field is required."
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// RegisterInput is the user-supplied part of a new principal.
type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// normalize trims everything but the password and lower-cases the email.
func (in RegisterInput) normalize() RegisterInput {
	in.Email = NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validate checks formats only; uniqueness is the store's job. The returned
// phone is normalised and still plaintext.
func (in RegisterInput) validate() (phone string, err error) {
	v := &ValidationError{}

	switch addr, perr := mail.ParseAddress(in.Email); {
	case in.Email == "":
		v.Add("email", msgRequired)
	case perr != nil || addr.Address != in.Email:
		v.Add("email", "Enter a valid email address.")
	}

	switch n := utf8.RuneCountInString(in.Username); {
	case n == 0:
		v.Add("username", msgRequired)
	case n > maxUsernameLength:
		v.Add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", maxUsernameLength))
	case !usernamePattern.MatchString(in.Username):
		v.Add("username", "Enter a valid username. This value may contain only letters, numbers, and ./-/_ characters.")
	}

	if utf8.RuneCountInString(in.Name) > maxNameLength {
		v.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLength))
	}

	switch n := utf8.RuneCountInString(in.Password); {
	case n == 0:
		v.Add("password", msgRequired)
	case n < minPasswordLength:
		v.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}

	if in.Phone != "" {
		p, perr := domain.NormalizePhone(in.Phone)
		if perr != nil {
			v.Add("phone", "Enter a valid phone number.")
		}
		phone = p
	}

	return phone, v.Err()
}
