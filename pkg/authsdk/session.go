package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nusalapor/backend/pkg/jwtx"
)

// refreshBuffer is how long before expiry the access token is renewed.
const refreshBuffer = 30 * time.Second

// Session is an authenticated user session with automatic access-token
// refresh. Safe for concurrent use.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         Profile
}

func newSession(client *SDKClient, pair TokenPair, user Profile) *Session {
	return &Session{
		client:       client,
		accessToken:  pair.Access,
		refreshToken: pair.Refresh,
		expiresAt:    accessExpiry(pair.Access),
		user:         user,
	}
}

// accessExpiry reads exp from the token without verifying it; the server
// verifies. Unreadable tokens count as already expired.
func accessExpiry(token string) time.Time {
	var claims jwtx.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Add(-refreshBuffer)
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// another goroutine may have refreshed
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	access, err := s.client.Refresh(ctx, s.refreshToken, s.accessToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = access
	s.expiresAt = accessExpiry(access)
	return s.accessToken, nil
}

// Refresh forces a new access token and denylists the current one.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, err := s.client.Refresh(ctx, s.refreshToken, s.accessToken)
	if err != nil {
		return err
	}
	s.accessToken = access
	s.expiresAt = accessExpiry(access)
	return nil
}

// Logout blacklists the refresh token. The session is unusable afterwards.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refreshToken
	s.mu.Unlock()

	if refresh == "" {
		return fmt.Errorf("no refresh token to revoke")
	}
	if err := s.client.Logout(ctx, refresh); err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	return nil
}

// Me fetches the caller's profile, including the decrypted phone.
func (s *Session) Me(ctx context.Context) (*Profile, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = p
	s.mu.Unlock()
	return &p, nil
}

// User is the profile returned at login or by the last Me call.
func (s *Session) User() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}
