package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"golang.org/x/time/rate"
)

// Limiters idle for longer than this are dropped on the next sweep
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// getClientIP keys limiters by the first X-Forwarded-For hop, then
// X-Real-IP, then the peer address without its port.
func (mw *Middleware) getClientIP(r *http.Request) string {
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// limiterFor returns the token bucket of a client, creating it on first use.
func (mw *Middleware) limiterFor(ip string, now time.Time) *rate.Limiter {
	mw.limitersMu.Lock()
	defer mw.limitersMu.Unlock()

	if len(mw.limiters) > 1024 {
		for key, cl := range mw.limiters {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(mw.limiters, key)
			}
		}
	}

	cl, ok := mw.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(mw.cfg.RateLimit.RPS), mw.cfg.RateLimit.Burst)}
		mw.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimitMiddleware applies a per client token bucket of RATE_LIMIT_RPS
// requests per second with RATE_LIMIT_BURST burst.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip if rate limiting is disabled
			if !mw.cfg.RateLimit.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			// Skip rate limiting for health checks and scraping
			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)
			now := time.Now()
			limiter := mw.limiterFor(clientIP, now)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.Burst()))

			reservation := limiter.ReserveN(now, 1)
			if delay := reservation.DelayFrom(now); delay > 0 {
				reservation.CancelAt(now)

				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", r.URL.Path),
					gecho.Field("retry_after", delay),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(delay.Seconds()))))
				gecho.TooManyRequests(w,
					gecho.WithMessage("error.rateLimitExceeded"),
					gecho.Send(),
				)
				return
			}

			remaining := int(limiter.TokensAt(now))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, remaining)))

			next.ServeHTTP(w, r)
		})
	}
}
