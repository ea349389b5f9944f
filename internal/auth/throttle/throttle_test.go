package throttle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nusalapor/backend/internal/auth/throttle"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLimiter(t *testing.T, limit int) (*throttle.Limiter, *miniredis.Miniredis, *clock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := throttle.New(client, throttle.Config{Scope: "login", Limit: limit, Window: time.Minute}).WithClock(c.now)
	return l, mr, c
}

func TestKey(t *testing.T) {
	l, _, _ := newLimiter(t, 3)
	require.Equal(t, "throttle:login:10.0.0.1:a@x.com", l.Key("10.0.0.1", " A@X.com "))
	require.Equal(t, "throttle:login:10.0.0.1", l.Key("10.0.0.1", ""))
}

func TestAllowRejectsAfterLimit(t *testing.T) {
	ctx := context.Background()
	l, mr, c := newLimiter(t, 3)
	key := l.Key("10.0.0.1", "a@x.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, key))
		c.advance(10 * time.Second)
	}

	err := l.Allow(ctx, key)
	var te *throttle.ThrottledError
	require.ErrorAs(t, err, &te)
	// oldest attempt was 30s ago
	require.Equal(t, 30, te.WaitSeconds())
	require.Equal(t, "Please try again after 30s", te.Detail())

	members, err := mr.ZMembers(key)
	require.NoError(t, err)
	require.Len(t, members, 3, "rejected attempts are not recorded")

	// other identifiers from the same IP are unaffected
	require.NoError(t, l.Allow(ctx, l.Key("10.0.0.1", "b@x.com")))
}

func TestWindowSlides(t *testing.T) {
	ctx := context.Background()
	l, _, c := newLimiter(t, 2)
	key := l.Key("10.0.0.2", "")

	require.NoError(t, l.Allow(ctx, key))
	c.advance(30 * time.Second)
	require.NoError(t, l.Allow(ctx, key))
	require.Error(t, l.Allow(ctx, key))

	c.advance(30 * time.Second)
	require.NoError(t, l.Allow(ctx, key), "first attempt left the window")
	require.Error(t, l.Allow(ctx, key))
}

func TestResetRestoresAllowance(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLimiter(t, 3)
	key := l.Key("10.0.0.3", "a@x.com")

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, key))
	}
	require.Error(t, l.Allow(ctx, key))

	require.NoError(t, l.Reset(ctx, key))
	require.NoError(t, l.Allow(ctx, key))
}

func TestKeyExpires(t *testing.T) {
	ctx := context.Background()
	l, mr, _ := newLimiter(t, 3)
	key := l.Key("10.0.0.4", "x")

	require.NoError(t, l.Allow(ctx, key))
	require.True(t, mr.Exists(key))
	require.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute)
	require.False(t, mr.Exists(key))
}

func TestUnavailableFailsClosed(t *testing.T) {
	l, mr, _ := newLimiter(t, 3)
	mr.Close()

	err := l.Allow(context.Background(), "throttle:login:x")
	require.ErrorIs(t, err, throttle.ErrUnavailable)

	var te *throttle.ThrottledError
	require.False(t, errors.As(err, &te))
}

func TestDetail(t *testing.T) {
	tests := []struct {
		wait time.Duration
		want string
	}{
		{45 * time.Second, "Please try again after 45s"},
		{65 * time.Second, "Please try again after 1m 5s"},
		{1500 * time.Millisecond, "Please try again after 2s"},
		{0, "Please try again after 1s"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, (&throttle.ThrottledError{Wait: tt.wait}).Detail())
	}
}
