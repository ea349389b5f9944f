package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/pkg/slogx"
)

// SessionStore holds server-side session markers.
type SessionStore interface {
	Create(ctx context.Context, principalID string) (string, error)
	Get(ctx context.Context, sid string) (string, error)
	Delete(ctx context.Context, sid string) error
}

// SessionService orchestrates register, login and logout.
type SessionService struct {
	Store       store.Store
	Credentials *Credentials
	Tokens      *TokenService
	Sessions    SessionStore
}

// LoginResult is everything the HTTP layer needs to answer a login.
type LoginResult struct {
	Tokens    domain.TokenPair
	SessionID string
	Principal domain.Principal
	Profile   domain.Profile
}

// Register creates a plain, active principal.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (domain.Principal, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Credentials.NewPrincipal(in)
	if err != nil {
		return domain.Principal{}, err
	}

	repo := s.Store.Principals()
	if err := checkAvailable(ctx, repo, p); err != nil {
		return domain.Principal{}, err
	}
	if err := repo.CreatePrincipal(ctx, p); err != nil {
		return domain.Principal{}, mapConflict(err)
	}

	l.Info("principal registered", slog.String("principal_id", p.ID))
	return p, nil
}

// Lookup resolves a login identifier: an email when it contains '@',
// otherwise a username.
func (s *SessionService) Lookup(ctx context.Context, identifier string) (domain.Principal, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.Store.Principals().GetPrincipalByEmail(ctx, NormalizeEmail(identifier))
	}
	return s.Store.Principals().GetPrincipalByUsername(ctx, identifier)
}

// Login verifies credentials and opens a session. Unknown accounts, wrong
// passwords and inactive accounts are all ErrInvalidCredentials and cost the
// same PBKDF2 work.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	if strings.TrimSpace(identifier) == "" || password == "" {
		s.Credentials.Hasher.VerifyDummy(password)
		return LoginResult{}, ErrInvalidCredentials
	}

	p, err := s.Lookup(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		s.Credentials.Hasher.VerifyDummy(password)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if !s.Credentials.Hasher.Verify(password, p.PasswordSalt, p.PasswordHash) {
		l.Info("login failed", slog.String("principal_id", p.ID))
		return LoginResult{}, ErrInvalidCredentials
	}
	if !p.Active {
		l.Info("login refused for inactive principal", slog.String("principal_id", p.ID))
		return LoginResult{}, ErrInvalidCredentials
	}

	pair, err := s.Tokens.Issue(ctx, p)
	if err != nil {
		return LoginResult{}, err
	}

	sid, err := s.Sessions.Create(ctx, p.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	l.Info("login succeeded", slog.String("principal_id", p.ID))
	return LoginResult{
		Tokens:    pair,
		SessionID: sid,
		Principal: p,
		Profile:   s.Profile(ctx, p),
	}, nil
}

// Logout blacklists the refresh token and drops the session marker. A token
// that is already invalid or blacklisted is rejected without side effects.
func (s *SessionService) Logout(ctx context.Context, refresh, sid string) error {
	l := slogx.FromContext(ctx)

	if refresh == "" {
		return fieldError("refresh", msgRequired)
	}
	claims, err := s.Tokens.ValidateRefresh(ctx, refresh)
	if err != nil {
		return err
	}
	if err := s.Tokens.Revoke(ctx, refresh); err != nil {
		return err
	}

	s.endSession(ctx, sid, claims.Subject)

	l.Info("logout", slog.String("principal_id", claims.Subject))
	return nil
}

// endSession drops the sid marker when it belongs to principalID. Markers
// expire on their own, so failures here only get logged.
func (s *SessionService) endSession(ctx context.Context, sid, principalID string) {
	l := slogx.FromContext(ctx)
	if sid == "" {
		return
	}

	owner, err := s.Sessions.Get(ctx, sid)
	if err != nil {
		l.Debug("session marker not found", slog.Any("error", err))
		return
	}
	if owner != principalID {
		l.Warn("session marker belongs to another principal",
			slog.String("principal_id", principalID),
		)
		return
	}

	if err := s.Sessions.Delete(ctx, sid); err != nil {
		l.Warn("failed to delete session marker", slog.Any("error", err))
	}
}

// Profile renders p for clients, decrypting the phone when possible.
func (s *SessionService) Profile(ctx context.Context, p domain.Principal) domain.Profile {
	phone, err := s.Credentials.Phone(p)
	if err != nil {
		slogx.FromContext(ctx).Warn("phone not decryptable",
			slog.String("principal_id", p.ID),
			slog.Any("error", err),
		)
	}
	return p.Profile(phone)
}
