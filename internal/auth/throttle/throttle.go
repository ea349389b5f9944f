// Package throttle is a Redis-backed sliding-window limiter for credential
// endpoints. Each key holds a sorted set of attempt timestamps (ms).
package throttle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nusalapor/backend/pkg/idx"
	"github.com/redis/go-redis/v9"
)

// ErrUnavailable means the backing store could not be reached. Callers fail
// closed.
var ErrUnavailable = errors.New("throttle: store unavailable")

// ThrottledError rejects an attempt and says how long until the oldest
// retained attempt leaves the window.
type ThrottledError struct {
	Wait time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("throttle: too many attempts, retry in %ds", e.WaitSeconds())
}

// WaitSeconds rounds Wait up to whole seconds, never below 1.
func (e *ThrottledError) WaitSeconds() int {
	s := int(math.Ceil(e.Wait.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// Detail renders the wait for humans, e.g. "Please try again after 1m 5s".
func (e *ThrottledError) Detail() string {
	s := e.WaitSeconds()
	if m := s / 60; m > 0 {
		return fmt.Sprintf("Please try again after %dm %ds", m, s%60)
	}
	return fmt.Sprintf("Please try again after %ds", s)
}

// prune, count, then admit or report the oldest score.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1}
`

var slidingWindowLua = redis.NewScript(slidingWindowScript)

// Config describes one throttle scope.
type Config struct {
	Scope  string
	Limit  int
	Window time.Duration
}

// Limiter admits at most Limit attempts per key within Window.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
	now    func() time.Time
}

func New(client redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Limiter{redis: client, config: cfg, now: time.Now}
}

// WithClock replaces the time source. Tests only.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func (l *Limiter) Config() Config { return l.config }

// Key builds "throttle:<scope>:<ip>:<identifier>". The identifier is
// case-folded; without one the key is IP-only.
func (l *Limiter) Key(ip, identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return "throttle:" + l.config.Scope + ":" + ip
	}
	return "throttle:" + l.config.Scope + ":" + ip + ":" + identifier
}

// Allow records an attempt for key, or returns *ThrottledError when the
// window is full. Rejected attempts are not recorded.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	now := l.now().UnixMilli()
	window := l.config.Window.Milliseconds()

	res, err := slidingWindowLua.Run(ctx, l.redis, []string{key},
		now, window, l.config.Limit, fmt.Sprintf("%d-%s", now, idx.New()),
	).Int64Slice()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(res) != 2 {
		return fmt.Errorf("%w: unexpected script reply %v", ErrUnavailable, res)
	}
	if res[0] == 1 {
		return nil
	}

	wait := time.Duration(window-(now-res[1])) * time.Millisecond
	if wait < time.Second {
		wait = time.Second
	}
	if wait > l.config.Window {
		wait = l.config.Window
	}
	return &ThrottledError{Wait: wait}
}

// Reset forgets every attempt recorded for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
