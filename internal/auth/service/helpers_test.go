package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nusalapor/backend/internal/auth/cache"
	"github.com/nusalapor/backend/internal/auth/domain"
	"github.com/nusalapor/backend/internal/auth/service"
	"github.com/nusalapor/backend/internal/auth/store/drivers/sqlite"
	"github.com/nusalapor/backend/pkg/cryptox"
	"github.com/nusalapor/backend/pkg/jwtx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testIssuer = "nusalapor-auth"

type testEnv struct {
	store    *sqlite.Store
	redis    *miniredis.Miniredis
	creds    *service.Credentials
	tokens   *service.TokenService
	sessions *service.SessionService
	roles    *service.RoleService
	denylist *cache.Denylist
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	fieldKey := make([]byte, cryptox.FieldKeySize)
	fields, err := cryptox.NewFieldEncryptor(fieldKey)
	require.NoError(t, err)

	creds := &service.Credentials{
		Hasher: cryptox.NewPasswordHasher(cryptox.MinPasswordIterations),
		Fields: fields,
	}
	denylist := cache.NewDenylist(rdb)
	tokens := &service.TokenService{
		Signer:     signer,
		Verifier:   jwtx.NewVerifier(keys, testIssuer),
		Store:      st,
		Denylist:   denylist,
		Issuer:     testIssuer,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: time.Hour,
	}

	return &testEnv{
		store:  st,
		redis:  mr,
		creds:  creds,
		tokens: tokens,
		sessions: &service.SessionService{
			Store:       st,
			Credentials: creds,
			Tokens:      tokens,
			Sessions:    cache.NewSessions(rdb, time.Hour),
		},
		roles:    &service.RoleService{Store: st, Credentials: creds},
		denylist: denylist,
	}
}

func (e *testEnv) register(t *testing.T, email, username string) domain.Principal {
	t.Helper()
	p, err := e.sessions.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Username: username,
		Name:     "Test " + username,
		Password: "rahasia123",
	})
	require.NoError(t, err)
	return p
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}
