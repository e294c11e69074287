package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/shelf-api/internal/api/shared"
	"github.com/phrazzld/shelf-api/internal/platform/logger"
	"github.com/phrazzld/shelf-api/internal/redact"
)

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(r *http.Request) string

// KeyByIPAndPath limits by client IP and route pattern.
func KeyByIPAndPath() KeyFunc {
	return func(r *http.Request) string {
		return "rl:path:" + routePath(r) + ":ip:" + clientIP(r)
	}
}

// clientIP reads RemoteAddr, which chi's RealIP middleware has already
// replaced with the forwarded address when one was present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}

func routePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// incr+expire in one round trip; returns the count and the remaining TTL in ms.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RateLimit allows at most max requests per window for each key, counting in
// redis. A nil client or non-positive limit disables limiting, and a redis
// failure lets the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc) func(http.Handler) http.Handler {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := keyFn(r)

			res, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64Slice()
			if err != nil || len(res) != 2 {
				logger.FromContext(ctx).Warn("rate limiter unavailable, allowing request",
					"error", redact.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			count, ttlMillis := int(res[0]), res[1]

			resetSec := 0
			if ttlMillis > 0 {
				resetSec = int((time.Duration(ttlMillis)*time.Millisecond + time.Second - 1) / time.Second)
			}
			remaining := max - count
			if remaining < 0 {
				remaining = 0
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

			if count > max {
				if resetSec > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(resetSec))
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
					"Request was throttled.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
