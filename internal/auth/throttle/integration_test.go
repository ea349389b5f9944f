//go:build integration

package throttle_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/nusalapor/backend/internal/auth/throttle"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var redisAddr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	redisAddr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestSlidingWindowAgainstRedis(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = client.Close() })

	l := throttle.New(client, throttle.Config{Scope: "login", Limit: 3, Window: 2 * time.Second})
	key := l.Key("192.0.2.1", "it@x.com")
	require.NoError(t, l.Reset(ctx, key))

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, key))
	}

	var te *throttle.ThrottledError
	require.ErrorAs(t, l.Allow(ctx, key), &te)
	require.LessOrEqual(t, te.WaitSeconds(), 2)

	ttl, err := client.PTTL(ctx, key).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	time.Sleep(2100 * time.Millisecond)
	require.NoError(t, l.Allow(ctx, key))
}
