package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/pkg/cryptox"
)

var conflictMessages = map[string]string{
	"email":    "user with this email already exists.",
	"username": "A user with that username already exists.",
}

// Credentials builds principals from raw input: validation, password
// hashing and phone encryption. Shared by self-registration, officer
// creation and superuser seeding.
type Credentials struct {
	Hasher *cryptox.PasswordHasher
	Fields *cryptox.FieldEncryptor
}

// NewPrincipal validates in and returns an unsaved, active principal.
func (c *Credentials) NewPrincipal(in RegisterInput) (domain.Principal, error) {
	in = in.normalize()
	phone, err := in.validate()
	if err != nil {
		return domain.Principal{}, err
	}

	hash, salt, err := c.Hasher.Hash(in.Password)
	if err != nil {
		return domain.Principal{}, err
	}

	var encPhone string
	if phone != "" {
		if encPhone, err = c.Fields.Encrypt(phone); err != nil {
			return domain.Principal{}, fmt.Errorf("encrypt phone: %w", err)
		}
	}

	now := time.Now().UTC()
	return domain.Principal{
		ID:             uuid.NewString(),
		Email:          in.Email,
		Username:       in.Username,
		Name:           in.Name,
		PhoneEncrypted: encPhone,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		Active:         true,
		Role:           domain.PlainRole(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Phone decrypts p's phone. Unreadable ciphertext is reported as absent.
func (c *Credentials) Phone(p domain.Principal) (*string, error) {
	if p.PhoneEncrypted == "" {
		return nil, nil
	}
	phone, err := c.Fields.Decrypt(p.PhoneEncrypted)
	if err != nil {
		return nil, err
	}
	return &phone, nil
}

// checkAvailable reports taken email/username as field errors before any
// write, so both show up at once.
func checkAvailable(ctx context.Context, repo store.Principals, p domain.Principal) error {
	v := &ValidationError{}

	if _, err := repo.GetPrincipalByEmail(ctx, p.Email); err == nil {
		v.Add("email", conflictMessages["email"])
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if _, err := repo.GetPrincipalByUsername(ctx, p.Username); err == nil {
		v.Add("username", conflictMessages["username"])
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	return v.Err()
}

// mapConflict turns a unique violation that slipped past checkAvailable
// (a concurrent insert) into the same field error.
func mapConflict(err error) error {
	var ce *store.ConflictError
	if !errors.As(err, &ce) {
		return err
	}
	msg, ok := conflictMessages[ce.Field]
	if !ok {
		msg = "This value is already in use."
	}
	return fieldError(ce.Field, msg)
}
