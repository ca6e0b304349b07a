package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/turtacn/SynthLaw/pkg/errors"
	types "github.com/turtacn/SynthLaw/pkg/types/contract"
)

// RateLimiter decides whether a request with the given key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is the limiter state reported in response headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// KeyFunc extracts the limiter key. Defaults to the client IP.
	KeyFunc   func(r *http.Request) string
	SkipPaths []string
	// OnLimited is called with the matched route pattern each time a request
	// is rejected. Mount the middleware with chi's With so the pattern is known.
	OnLimited func(route string)
	// IdleTTL evicts limiters unused for this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns the default rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 5,
		Burst:             10,
		KeyFunc:           ClientIPKey,
		SkipPaths:         []string{"/healthz", "/readyz", "/metrics", "/api/health"},
		IdleTTL:           10 * time.Minute,
	}
}

// ClientIPKey keys requests by remote IP. Run chi's RealIP first so proxied
// addresses are honoured.
func ClientIPKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter holds one token bucket per key.
type KeyedLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewKeyedLimiter creates a per-key limiter. Idle keys are swept lazily.
func NewKeyedLimiter(rps float64, burst int, idleTTL time.Duration) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Allow consumes one token for key.
func (l *KeyedLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	limit, burst := l.limit, l.burst
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(limit, burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)

	info := RateLimitInfo{Limit: burst, Remaining: int(math.Max(0, math.Floor(tokens)))}
	if limit > 0 {
		missing := 1 - tokens
		if missing < 0 {
			missing = 0
		}
		info.ResetAt = now.Add(time.Duration(missing / float64(limit) * float64(time.Second)))
	} else {
		info.ResetAt = now
	}
	return allowed, info
}

// SetLimit changes the rate and burst for new and tracked keys.
func (l *KeyedLimiter) SetLimit(rps float64, burst int) {
	if burst < 1 {
		burst = 1
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit, l.burst = rate.Limit(rps), burst
	for _, v := range l.visitors {
		v.limiter.SetLimitAt(now, l.limit)
		v.limiter.SetBurstAt(now, burst)
	}
}

// Len is the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// sweep must be called with mu held.
func (l *KeyedLimiter) sweep(now time.Time) {
	if l.idleTTL <= 0 || now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idleTTL {
			delete(l.visitors, key)
		}
	}
}

// RateLimit returns middleware that enforces limiter. Rejected requests get
// 429 with a Retry-After header.
func RateLimit(limiter RateLimiter, config RateLimitConfig) func(http.Handler) http.Handler {
	skipSet := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skipSet[p] = true
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIPKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipSet[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			allowed, info := limiter.Allow(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

			if !allowed {
				retryAfter := int(math.Ceil(time.Until(info.ResetAt).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				if config.OnLimited != nil {
					config.OnLimited(routePattern(r))
				}
				writeTooMany(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooMany(w http.ResponseWriter) {
	code := errors.ErrCodeTooManyRequests
	writeJSONError(w, http.StatusTooManyRequests, types.ErrorResponse{
		Error:   "rate limit exceeded, please retry later",
		Code:    string(code),
		Message: errors.DefaultMessageForCode(code),
	})
}

// routePattern returns the chi route pattern, keeping metric labels bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
