package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nusalapor/backend/pkg/idx"
)

// Default token lifetimes. Both can be overridden through service config.
const (
	// DefaultAccessTokenTTL is the lifetime of an access token.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the lifetime of a refresh token.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token types carried in the token_type claim. A refresh token must never be
// accepted where an access token is expected and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims are the claims carried by both halves of a session token pair.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType is either TypeAccess or TypeRefresh.
	TokenType string `json:"token_type"`

	// Username of the principal at issue time, informational only.
	Username string `json:"username,omitempty"`
}

// NewClaims builds claims for the given token type with a fresh jti.
func NewClaims(
	tokenType, subject, username string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.NewAt(now).String(),
		},
		TokenType: tokenType,
		Username:  username,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateType checks the token_type claim.
func (c *Claims) ValidateType(expected string) error {
	if c.TokenType != expected {
		return ErrTokenType
	}
	return nil
}

// ValidateExpiryAt checks exp and nbf against now.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// Remaining returns how long the token stays valid after now. Tokens without
// an expiry report zero.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}
