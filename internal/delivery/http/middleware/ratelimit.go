package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	h "tradefair/internal/delivery/http/helpers"
)

// RateLimitConfig defines a token bucket per client.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	Window            time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP. Enable only behind a
	// proxy that overwrites them; otherwise clients can pick their own bucket.
	TrustProxyHeaders bool
}

// AuthLimit guards sign-in, sign-up and password reset against brute force.
var AuthLimit = RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

const limiterSweepInterval = 5 * time.Minute

// ClientIP extracts the client IP address. Forwarding headers are consulted only when
// trustProxy is set; otherwise the connection's remote address is used.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := forwardedIP(r); ip != "" {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func forwardedIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return strings.TrimSpace(r.Header.Get("X-Real-IP"))
}

// RateLimiter keeps one limiter per client IP.
type RateLimiter struct {
	config    RateLimitConfig
	limiters  sync.Map // map[string]*rate.Limiter
	logger    *slog.Logger
	mu        sync.Mutex
	lastSweep time.Time
}

// NewRateLimiter returns a RateLimiter for config.
func NewRateLimiter(config RateLimitConfig, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{config: config, logger: logger, lastSweep: time.Now()}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if l, ok := rl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	perSecond := rate.Limit(float64(rl.config.RequestsPerWindow) / rl.config.Window.Seconds())
	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(perSecond, rl.config.Burst))
	rl.sweep()
	return actual.(*rate.Limiter)
}

// sweep drops idle limiters, recognised by a full bucket.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if time.Since(rl.lastSweep) < limiterSweepInterval {
		return
	}
	rl.lastSweep = time.Now()
	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.config.Burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// Limit wraps next, answering 429 with Retry-After once the client's bucket is empty.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := ClientIP(r, rl.config.TrustProxyHeaders)
		l := rl.limiter(key)
		if !l.Allow() {
			reservation := l.Reserve()
			delay := reservation.Delay()
			reservation.Cancel()
			retryAfter := max(int(delay.Seconds()), 1)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			rl.logger.WarnContext(r.Context(), "rate limit exceeded", "key", key, "path", r.URL.Path, "retry_after", retryAfter)
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "too many requests, try again later")
			return
		}
		next(w, r)
	}
}
