package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/pkg/slogx"
)

// BootstrapService seeds the first superuser at startup.
type BootstrapService struct {
	Store       store.Store
	Credentials *Credentials
}

// EnsureSuperuser creates an active superuser from in unless a principal with
// the same email or username already exists. Returns whether one was created.
func (s *BootstrapService) EnsureSuperuser(ctx context.Context, in RegisterInput) (bool, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Credentials.NewPrincipal(in)
	if err != nil {
		return false, err
	}
	p.Staff = true
	p.Superuser = true

	err = checkAvailable(ctx, s.Store.Principals(), p)
	var verr *ValidationError
	if errors.As(err, &verr) {
		l.Debug("superuser already present", slog.String("username", p.Username))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.Store.Principals().CreatePrincipal(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}

	l.Info("superuser created", slog.String("principal_id", p.ID), slog.String("username", p.Username))
	return true, nil
}

// SuperuserInput is a convenience for config-driven seeding.
func SuperuserInput(email, username, password string) RegisterInput {
	return RegisterInput{Email: email, Username: username, Name: username, Password: password}
}
