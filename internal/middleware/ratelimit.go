package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/samims/contactrelay/internal/metrics"
	"github.com/samims/contactrelay/internal/model"
)

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type redisLimiter struct {
	rdb    goredis.Cmdable
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter is a fixed-window counter: the first hit in a window sets the expiry.
func NewRedisLimiter(rdb goredis.Cmdable, limit int, window time.Duration) Limiter {
	return &redisLimiter{rdb: rdb, limit: limit, window: window, prefix: "contact:ratelimit:"}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	var incr *goredis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

// RateLimit rejects requests over the limit with 429. Limiter errors let the request through.
// Clients are keyed by socket address; X-Forwarded-For is only honoured when the socket
// address is one of trustedProxies.
func RateLimit(limiter Limiter, trustedProxies []netip.Prefix, logger *slog.Logger) func(http.Handler) http.Handler {
	l := logger.With("layer", "middleware", "component", "rateLimit")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r, trustedProxies)
			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				l.Warn("Rate limiter unavailable, allowing request", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				metrics.RateLimited.Inc()
				l.Info("Rate limit exceeded", slog.String("client", key))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(model.SubmissionResult{
					Success: false,
					Message: "Too many submissions. Please wait a moment and try again.",
					Error:   "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !isTrusted(peer, trusted) {
		return host
	}

	// rightmost hop not added by one of our proxies
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !isTrusted(addr, trusted) {
			return addr.String()
		}
	}
	return host
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
