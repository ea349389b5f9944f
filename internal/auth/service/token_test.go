package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type failingDenylist struct{ calls int }

func (f *failingDenylist) Add(context.Context, string, time.Duration) error {
	f.calls++
	return errors.New("redis down")
}

func TestIssueAndVerifyAccess(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	pair, err := env.tokens.Issue(context.Background(), p)
	require.NoError(t, err)

	id, err := env.tokens.VerifyAccess(pair.Access)
	require.NoError(t, err)
	require.Equal(t, p.ID, id)

	_, err = env.tokens.VerifyAccess(pair.Refresh)
	require.ErrorIs(t, err, service.ErrInvalidToken, "refresh token is not an access token")

	_, err = env.tokens.VerifyAccess("")
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	env.tokens.Now = func() time.Time { return time.Now().Add(-time.Hour) }
	pair, err := env.tokens.Issue(context.Background(), p)
	require.NoError(t, err)

	_, err = env.tokens.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, service.ErrInvalidToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyAccessUsesServiceClock(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	pair, err := env.tokens.Issue(context.Background(), p)
	require.NoError(t, err)

	env.tokens.Now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = env.tokens.VerifyAccess(pair.Access)
	require.ErrorIs(t, err, service.ErrInvalidToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	pair, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)

	access, err := env.tokens.Refresh(ctx, pair.Refresh, "")
	require.NoError(t, err)
	id, err := env.tokens.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, p.ID, id)

	_, err = env.tokens.Refresh(ctx, pair.Access, "")
	require.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = env.tokens.Refresh(ctx, "not-a-jwt", "")
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRefreshDenylistsOldAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	pair, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)

	_, err = env.tokens.Refresh(ctx, pair.Refresh, pair.Access)
	require.NoError(t, err)

	claims, err := env.tokens.Verifier.Verify(pair.Access)
	require.NoError(t, err)
	revoked, err := env.denylist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, revoked)

	// stateless verification still accepts it; the denylist is consulted by
	// the HTTP layer
	_, err = env.tokens.VerifyAccess(pair.Access)
	require.NoError(t, err)
}

func TestRefreshSurvivesDenylistFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	failing := &failingDenylist{}
	env.tokens.Denylist = failing

	pair, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)

	access, err := env.tokens.Refresh(ctx, pair.Refresh, pair.Access)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.Equal(t, 1, failing.calls)

	// garbage old access is ignored without touching the denylist
	_, err = env.tokens.Refresh(ctx, pair.Refresh, "garbage")
	require.NoError(t, err)
	require.Equal(t, 1, failing.calls)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	pair, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)

	require.NoError(t, env.tokens.Revoke(ctx, pair.Refresh))
	require.NoError(t, env.tokens.Revoke(ctx, pair.Refresh), "double revoke is not an error")

	_, err = env.tokens.Refresh(ctx, pair.Refresh, "")
	require.ErrorIs(t, err, service.ErrTokenBlacklisted)

	// the sibling access token lives until its own expiry
	id, err := env.tokens.VerifyAccess(pair.Access)
	require.NoError(t, err)
	require.Equal(t, p.ID, id)

	require.ErrorIs(t, env.tokens.Revoke(ctx, pair.Access), service.ErrInvalidToken)
}

func TestRevokeUnknownJTI(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	// signed by us but never recorded in the ledger
	c := jwtx.NewClaims(jwtx.TypeRefresh, p.ID, p.Username, time.Hour, testIssuer, time.Now())
	raw, err := env.tokens.Signer.Sign(c)
	require.NoError(t, err)

	require.ErrorIs(t, env.tokens.Revoke(context.Background(), raw), service.ErrInvalidToken)
	_, err = env.tokens.ValidateRefresh(context.Background(), raw)
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRefreshInactivePrincipal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.creds.NewPrincipal(service.RegisterInput{
		Email: "off@x.com", Username: "off", Password: "rahasia123",
	})
	require.NoError(t, err)
	p.Active = false
	require.NoError(t, env.store.Principals().CreatePrincipal(ctx, p))

	pair, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)

	_, err = env.tokens.Refresh(ctx, pair.Refresh, "")
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestIssueRecordsLedgerEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	pair, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)

	claims, err := env.tokens.ValidateRefresh(ctx, pair.Refresh)
	require.NoError(t, err)

	rec, err := env.store.RefreshTokens().GetRefreshToken(ctx, claims.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, rec.PrincipalID)
	require.Nil(t, rec.BlacklistedAt)
}
