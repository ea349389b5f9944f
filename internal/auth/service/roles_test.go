package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestAssignOfficer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	require.False(t, service.TierOfficer.Allows(p))

	promoted, err := env.roles.AssignOfficer(ctx, p.ID, "")
	require.NoError(t, err)
	require.True(t, promoted.IsOfficer())
	require.True(t, promoted.Staff)
	require.Equal(t, domain.DefaultOfficerTitle, promoted.Role.Title)

	resolved, err := env.roles.Resolve(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, service.TierOfficer.Allows(resolved))
	require.False(t, service.TierAdmin.Allows(resolved))

	_, err = env.roles.AssignOfficer(ctx, p.ID, "Kepala")
	require.ErrorIs(t, err, service.ErrAlreadyAssigned)

	_, err = env.roles.AssignOfficer(ctx, "missing", "")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestAssignOfficerToAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	boot := &service.BootstrapService{Store: env.store, Credentials: env.creds}
	_, err := boot.EnsureSuperuser(ctx, service.SuperuserInput("root@x.com", "root", "rahasia123"))
	require.NoError(t, err)

	admin, err := env.sessions.Lookup(ctx, "root")
	require.NoError(t, err)

	// admin and officer may coexist
	promoted, err := env.roles.AssignOfficer(ctx, admin.ID, "Koordinator")
	require.NoError(t, err)
	require.True(t, service.TierAdmin.Allows(promoted))
	require.True(t, service.TierOfficer.Allows(promoted))
	require.Equal(t, "admin", promoted.RoleName())
}

func TestCreateOfficer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.roles.CreateOfficer(ctx, service.RegisterInput{
		Email: "petugas@x.com", Username: "petugas1", Password: "rahasia123",
	}, "Petugas Lapangan")
	require.NoError(t, err)

	got, err := env.store.Principals().GetPrincipalByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.IsOfficer())
	require.True(t, got.Staff)
	require.Equal(t, "Petugas Lapangan", got.Role.Title)

	_, err = env.roles.CreateOfficer(ctx, service.RegisterInput{
		Email: "petugas@x.com", Username: "petugas2", Password: "rahasia123",
	}, "")
	require.Contains(t, validationFields(t, err), "email")
}

func TestResolveInactive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.creds.NewPrincipal(service.RegisterInput{
		Email: "off@x.com", Username: "off", Password: "rahasia123",
	})
	require.NoError(t, err)
	p.Active = false
	require.NoError(t, env.store.Principals().CreatePrincipal(ctx, p))

	_, err = env.roles.Resolve(ctx, p.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
	require.False(t, service.TierAuthenticated.Allows(p))
}

func TestEnsureSuperuserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	boot := &service.BootstrapService{Store: env.store, Credentials: env.creds}
	in := service.SuperuserInput("root@x.com", "root", "rahasia123")

	created, err := boot.EnsureSuperuser(ctx, in)
	require.NoError(t, err)
	require.True(t, created)

	created, err = boot.EnsureSuperuser(ctx, in)
	require.NoError(t, err)
	require.False(t, created)

	res, err := env.sessions.Login(ctx, "root@x.com", "rahasia123")
	require.NoError(t, err)
	require.True(t, res.Principal.IsAdmin())
	require.True(t, res.Principal.Staff)
}

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	p := env.register(t, "a@x.com", "alice")

	env.tokens.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)
	env.tokens.Now = nil
	fresh, err := env.tokens.Issue(ctx, p)
	require.NoError(t, err)

	hk := service.NewHousekeepingService(env.store, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)
	hk.Cleanup(ctx)

	_, err = env.tokens.ValidateRefresh(ctx, fresh.Refresh)
	require.NoError(t, err)

	n, err := env.store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, time.Now())
	require.NoError(t, err)
	require.Zero(t, n, "expired row already removed")
}

func TestHousekeepingStartStop(t *testing.T) {
	env := newTestEnv(t)
	hk := service.NewHousekeepingService(env.store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Millisecond)
	hk.Start()
	time.Sleep(5 * time.Millisecond)
	hk.Stop()
}
