package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/store"
	"github.com/nusalapor/backend/pkg/jwtx"
	"github.com/nusalapor/backend/pkg/slogx"
)

// AccessDenylist remembers access-token jtis revoked before expiry.
type AccessDenylist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
}

// TokenService issues and manages EdDSA-signed access/refresh pairs. Access
// tokens are stateless; refresh tokens are tracked in the store's ledger.
type TokenService struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Store      store.Store
	Denylist   AccessDenylist // optional
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is the clock used for issuing and expiry checks; nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// Issue signs a fresh pair for p and records the refresh jti as outstanding.
func (s *TokenService) Issue(ctx context.Context, p domain.Principal) (domain.TokenPair, error) {
	now := s.now()

	refreshClaims := jwtx.NewClaims(jwtx.TypeRefresh, p.ID, p.Username, s.refreshTTL(), s.Issuer, now)
	refresh, err := s.Signer.Sign(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	access, err := s.signAccess(p, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	err = s.Store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshRecord{
		JTI:         refreshClaims.ID,
		PrincipalID: p.ID,
		IssuedAt:    now,
		ExpiresAt:   refreshClaims.ExpiresAt.Time,
	})
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("record refresh token: %w", err)
	}

	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) signAccess(p domain.Principal, now time.Time) (string, error) {
	token, err := s.Signer.Sign(jwtx.NewClaims(jwtx.TypeAccess, p.ID, p.Username, s.accessTTL(), s.Issuer, now))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// VerifyAccess checks signature, expiry and token type only. It never looks
// at the ledger or the denylist.
func (s *TokenService) VerifyAccess(raw string) (string, error) {
	claims, err := s.parse(raw, jwtx.TypeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *TokenService) parse(raw, tokenType string) (jwtx.Claims, error) {
	if raw == "" {
		return jwtx.Claims{}, ErrInvalidToken
	}
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if err := claims.ValidateType(tokenType); err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if err := claims.ValidateExpiryAt(s.now()); err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return jwtx.Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefresh parses raw and checks the ledger. Unknown or foreign jtis
// are ErrInvalidToken; blacklisted ones are ErrTokenBlacklisted.
func (s *TokenService) ValidateRefresh(ctx context.Context, raw string) (jwtx.Claims, error) {
	claims, err := s.parse(raw, jwtx.TypeRefresh)
	if err != nil {
		return jwtx.Claims{}, err
	}

	rec, err := s.Store.RefreshTokens().GetRefreshToken(ctx, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		return jwtx.Claims{}, ErrInvalidToken
	}
	if err != nil {
		return jwtx.Claims{}, err
	}
	if rec.PrincipalID != claims.Subject {
		return jwtx.Claims{}, ErrInvalidToken
	}
	if rec.Blacklisted() {
		return jwtx.Claims{}, ErrTokenBlacklisted
	}
	return claims, nil
}

// Refresh mints a new access token from a valid refresh token. When
// oldAccess is given its jti is denylisted for its remaining lifetime; that
// step is best-effort and never fails the call.
func (s *TokenService) Refresh(ctx context.Context, refresh, oldAccess string) (string, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.ValidateRefresh(ctx, refresh)
	if err != nil {
		return "", err
	}

	p, err := s.Store.Principals().GetPrincipalByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	if !p.Active {
		l.Info("refresh refused for inactive principal", slog.String("principal_id", p.ID))
		return "", ErrInvalidToken
	}

	if oldAccess != "" {
		s.denyAccess(ctx, oldAccess, p.ID)
	}

	return s.signAccess(p, s.now())
}

func (s *TokenService) denyAccess(ctx context.Context, raw, principalID string) {
	l := slogx.FromContext(ctx)
	if s.Denylist == nil {
		return
	}

	old, err := s.parse(raw, jwtx.TypeAccess)
	if err != nil {
		// already useless, nothing to deny
		l.Debug("old access token not denylisted", slog.Any("error", err))
		return
	}
	if old.Subject != principalID {
		l.Warn("old access token belongs to another principal",
			slog.String("principal_id", principalID),
			slog.String("token_subject", old.Subject),
		)
		return
	}

	if err := s.Denylist.Add(ctx, old.ID, old.Remaining(s.now())); err != nil {
		l.Error("failed to denylist old access token", slog.Any("error", err))
	}
}

// Revoke blacklists the refresh token's jti. Revoking twice is fine; a token
// that does not verify or is not in the ledger is ErrInvalidToken.
func (s *TokenService) Revoke(ctx context.Context, refresh string) error {
	claims, err := s.parse(refresh, jwtx.TypeRefresh)
	if err != nil {
		return err
	}

	err = s.Store.RefreshTokens().BlacklistRefreshToken(ctx, claims.ID, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}
