package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nusalapor/backend/pkg/idx"
	"github.com/nusalapor/backend/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "nusalapor-auth"

func TestNewClaims(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	c := jwtx.NewClaims(jwtx.TypeAccess, "user-1", "budi", 15*time.Minute, exampleIssuer, now)

	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, exampleIssuer, c.Issuer)
	require.Equal(t, jwtx.TypeAccess, c.TokenType)
	require.Equal(t, "budi", c.Username)
	require.Equal(t, now.Add(15*time.Minute), c.ExpiresAt.Time)
	jti, err := idx.Parse(c.ID)
	require.NoError(t, err)
	require.Equal(t, now, jti.Time().UTC())

	// jti must differ between calls, it is the ledger key
	other := jwtx.NewClaims(jwtx.TypeAccess, "user-1", "budi", 15*time.Minute, exampleIssuer, now)
	require.NotEqual(t, c.ID, other.ID)
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "auth-service",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("auth-service"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("report-service"), jwtx.ErrIssuer)
	})
}

func TestValidateType(t *testing.T) {
	c := &jwtx.Claims{TokenType: jwtx.TypeRefresh}

	require.NoError(t, c.ValidateType(jwtx.TypeRefresh))
	require.ErrorIs(t, c.ValidateType(jwtx.TypeAccess), jwtx.ErrTokenType)
}

func TestValidateExpiryAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()

	tests := []struct {
		name    string
		exp     time.Time
		nbf     time.Time
		wantErr error
	}{
		{"valid", now.Add(time.Minute), now.Add(-time.Minute), nil},
		{"expired", now.Add(-time.Second), now.Add(-time.Hour), jwtx.ErrExpired},
		{"expires exactly now", now, now.Add(-time.Hour), jwtx.ErrExpired},
		{"not yet valid", now.Add(time.Hour), now.Add(time.Minute), jwtx.ErrNotYetValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &jwtx.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(tt.exp),
					NotBefore: jwt.NewNumericDate(tt.nbf),
				},
			}
			err := c.ValidateExpiryAt(now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRemaining(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	c := jwtx.NewClaims(jwtx.TypeAccess, "u", "", 10*time.Minute, exampleIssuer, now)

	require.Equal(t, 10*time.Minute, c.Remaining(now))
	require.Equal(t, time.Duration(0), c.Remaining(now.Add(time.Hour)))
	require.Equal(t, time.Duration(0), (&jwtx.Claims{}).Remaining(now))
}
