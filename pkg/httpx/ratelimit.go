package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nusalapor/backend/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimit is a token-bucket profile: Requests per Window on average, with
// up to Burst admitted back to back.
type RateLimit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

func (l RateLimit) valid() bool {
	return l.Requests > 0 && l.Window > 0 && l.Burst > 0
}

// RateLimits are the in-process profiles routes pick from. Credential
// endpoints are additionally covered by the shared sliding-window throttle.
type RateLimits struct {
	Strict   RateLimit // admin mutations
	Moderate RateLimit // unauthenticated writes such as logout
	Lenient  RateLimit // authenticated reads
	Public   RateLimit // public documents (JWKS)
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   RateLimit{Requests: 5, Window: time.Minute, Burst: 5},
		Moderate: RateLimit{Requests: 20, Window: time.Minute, Burst: 20},
		Lenient:  RateLimit{Requests: 100, Window: time.Minute, Burst: 100},
		Public:   RateLimit{Requests: 1000, Window: time.Minute, Burst: 1000},
	}
}

// OrDefaults fills every unset or invalid profile from DefaultRateLimits.
func (r RateLimits) OrDefaults() RateLimits {
	d := DefaultRateLimits()
	pick := func(v, def RateLimit) RateLimit {
		if v.valid() {
			return v
		}
		return def
	}
	return RateLimits{
		Strict:   pick(r.Strict, d.Strict),
		Moderate: pick(r.Moderate, d.Moderate),
		Lenient:  pick(r.Lenient, d.Lenient),
		Public:   pick(r.Public, d.Public),
	}
}

// KeyExtractor groups requests into buckets. An empty key skips limiting.
type KeyExtractor func(*http.Request) string

// ClientIP resolves the address a request came from. Forwarding headers are
// honoured only when the direct peer is one of the trusted proxies; otherwise
// any client could pick its own key by sending X-Forwarded-For.
type ClientIP struct {
	trusted []netip.Prefix
}

func NewClientIP(trusted []netip.Prefix) ClientIP {
	return ClientIP{trusted: trusted}
}

// ParseTrustedProxies accepts CIDRs ("10.0.0.0/8") and bare addresses.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (c ClientIP) trusts(a netip.Addr) bool {
	for _, p := range c.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// Key is a KeyExtractor. Behind trusted proxies it walks X-Forwarded-For from
// the right and returns the first hop that is not a proxy of ours.
func (c ClientIP) Key(r *http.Request) string {
	peer, ok := peerAddr(r.RemoteAddr)
	if !ok {
		return r.RemoteAddr
	}
	if !c.trusts(peer) {
		return peer.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			hop = hop.Unmap()
			if !c.trusts(hop) {
				return hop.String()
			}
		}
	}
	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return peer.String()
}

func peerAddr(remote string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	if a, err := netip.ParseAddr(remote); err == nil {
		return a.Unmap(), true
	}
	return netip.Addr{}, false
}

// UserIDKeyExtractor keys on the authenticated user id from the context.
func UserIDKeyExtractor(r *http.Request) string {
	if userID, ok := r.Context().Value(CtxKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// PeekJSONField reads a top-level string field from a JSON body without
// consuming it. Non-JSON bodies and non-string values yield "".
func PeekJSONField(r *http.Request, fieldName string) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	var v string
	if err := json.Unmarshal(fields[fieldName], &v); err != nil {
		return ""
	}
	return v
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// buckets holds one token bucket per key and forgets keys idle for longer
// than a window.
type buckets struct {
	mu    sync.Mutex
	every rate.Limit
	burst int
	idle  time.Duration
	byKey map[string]*bucket
	swept time.Time
}

func newBuckets(l RateLimit) *buckets {
	return &buckets{
		every: rate.Every(l.Window / time.Duration(l.Requests)),
		burst: l.Burst,
		idle:  max(l.Window, time.Minute),
		byKey: make(map[string]*bucket),
	}
}

// take spends one token for key. When none is left it reports how long until
// the next one.
func (b *buckets) take(key string, now time.Time) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.swept) >= b.idle {
		for k, v := range b.byKey {
			if now.Sub(v.seen) >= b.idle {
				delete(b.byKey, k)
			}
		}
		b.swept = now
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{lim: rate.NewLimiter(b.every, b.burst)}
		b.byKey[key] = bk
	}
	bk.seen = now

	res := bk.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, b.idle
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

// RateLimitMiddleware limits requests per key with limit. An invalid profile
// disables limiting.
func RateLimitMiddleware(limit RateLimit, key KeyExtractor) Middleware {
	if !limit.valid() {
		return func(next http.Handler) http.Handler { return next }
	}
	set := newBuckets(limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			k := key(r)
			if k == "" {
				log.Warn("rate limit: no key for request, allowing")
				next.ServeHTTP(w, r)
				return
			}

			ok, retry := set.take(k, time.Now())
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			wait := max(int(math.Ceil(retry.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
			w.Header().Set("X-RateLimit-Window", limit.Window.String())

			log.Warn("rate limit exceeded",
				"key", k,
				"endpoint", r.URL.Path,
				"retry_after", wait,
			)

			WriteJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":        "Too many requests",
				"detail":       fmt.Sprintf("Please try again after %ds", wait),
				"wait_seconds": wait,
			})
		})
	}
}

// RateLimitByIP keys on the client address.
func RateLimitByIP(limit RateLimit, ip KeyExtractor) Middleware {
	return RateLimitMiddleware(limit, ip)
}

// RateLimitByUser keys on the authenticated user, falling back to the client
// address for anonymous requests.
func RateLimitByUser(limit RateLimit, ip KeyExtractor) Middleware {
	return RateLimitMiddleware(limit, func(r *http.Request) string {
		if id := UserIDKeyExtractor(r); id != "" {
			return "user:" + id
		}
		if addr := ip(r); addr != "" {
			return "ip:" + addr
		}
		return ""
	})
}
