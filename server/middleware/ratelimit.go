package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/kbukum/adapters/errors"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained rate per key. It is also the burst.
	RequestsPerMinute int
	// KeyFunc picks the client a request is charged to. Defaults to ClientIP.
	KeyFunc func(*http.Request) string
}

// RateLimit charges each request to a per-client token bucket. Requests over
// budget get 429 with a RATE_LIMITED body and a Retry-After header.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	buckets := newBuckets(cfg.RequestsPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wait := buckets.take(cfg.KeyFunc(r), time.Now()); wait > 0 {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(apperrors.RateLimited().ToResponse())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, or the host part of
// RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

const sweepEvery = 5 * time.Minute

// buckets holds one limiter per client. Full buckets are dropped on a
// periodic sweep piggybacked on take, so idle clients cost nothing.
type buckets struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
}

func newBuckets(perMinute int) *buckets {
	return &buckets{
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     perMinute,
		limiters:  make(map[string]*rate.Limiter),
		lastSweep: time.Now(),
	}
}

// take spends one token for key at now. It returns zero when the request
// may proceed, otherwise how long until a token is available.
func (b *buckets) take(key string, now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) >= sweepEvery {
		b.sweep(now)
	}
	lim, ok := b.limiters[key]
	if !ok {
		lim = rate.NewLimiter(b.limit, b.burst)
		b.limiters[key] = lim
	}

	res := lim.ReserveN(now, 1)
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return wait
	}
	return 0
}

func (b *buckets) sweep(now time.Time) {
	for key, lim := range b.limiters {
		if lim.TokensAt(now) >= float64(b.burst) {
			delete(b.limiters, key)
		}
	}
	b.lastSweep = now
}
