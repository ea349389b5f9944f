// Package cache keeps short-lived auth state in Redis: server-side session
// markers and the access-token denylist. Entries expire on their own.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nusalapor/backend/pkg/cryptox"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("cache: session not found")

// Sessions maps an opaque session id (the sessionid cookie) to a principal.
// Keys hold a fingerprint of the sid, never the raw value.
type Sessions struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func NewSessions(client redis.UniversalClient, ttl time.Duration) *Sessions {
	return &Sessions{redis: client, ttl: ttl}
}

func sessionKey(sid string) string {
	return "session:" + cryptox.FingerprintToken(sid)
}

// Create mints a session id bound to principalID.
func (s *Sessions) Create(ctx context.Context, principalID string) (string, error) {
	sid, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, sessionKey(sid), principalID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("cache: create session: %w", err)
	}
	return sid, nil
}

// Get returns the principal bound to sid, or ErrSessionNotFound.
func (s *Sessions) Get(ctx context.Context, sid string) (string, error) {
	id, err := s.redis.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("cache: get session: %w", err)
	}
	return id, nil
}

// Delete removes the marker. Unknown sids are not an error.
func (s *Sessions) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("cache: delete session: %w", err)
	}
	return nil
}

// Denylist holds access-token jtis revoked before their natural expiry.
type Denylist struct {
	redis redis.UniversalClient
}

func NewDenylist(client redis.UniversalClient) *Denylist {
	return &Denylist{redis: client}
}

func denylistKey(jti string) string { return "denylist:access:" + jti }

// Add denies jti for ttl, normally the token's remaining lifetime. A
// non-positive ttl means the token is already dead and nothing is written.
func (d *Denylist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.redis.Set(ctx, denylistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("cache: deny access token: %w", err)
	}
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.redis.Exists(ctx, denylistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("cache: check denylist: %w", err)
	}
	return n > 0, nil
}
