package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/logging"
	"github.com/dmitrijs2005/secretsanta/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// Counter counts hits on a key within a fixed window.
type Counter interface {
	// Hit records one hit and returns the number of hits so far in the
	// window starting at windowStart.
	Hit(ctx context.Context, key string, windowStart time.Time, window time.Duration) (int64, error)
}

// RedisCounter keeps fixed-window counters in Redis.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Hit(ctx context.Context, key string, windowStart time.Time, window time.Duration) (int64, error) {
	windowKey := fmt.Sprintf("%s:%d", key, windowStart.Unix())

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter limits requests per client IP. Whitelisted IPs and CIDRs are
// never limited. When the counter fails, requests are let through.
type RateLimiter struct {
	counter      Counter
	logger       logging.Logger
	whitelist    []*net.IPNet
	whitelistIPs map[string]bool
	now          func() time.Time
}

func NewRateLimiter(counter Counter, logger logging.Logger, whitelist []string) *RateLimiter {
	rl := &RateLimiter{
		counter:      counter,
		logger:       logger,
		whitelistIPs: make(map[string]bool),
		now:          time.Now,
	}

	for _, entry := range whitelist {
		if strings.Contains(entry, "/") {
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				logger.Warn(context.Background(), "invalid CIDR in whitelist", "entry", entry, "error", err)
				continue
			}
			rl.whitelist = append(rl.whitelist, ipNet)
		} else {
			rl.whitelistIPs[entry] = true
		}
	}

	return rl
}

func (rl *RateLimiter) isWhitelisted(ipStr string) bool {
	if rl.whitelistIPs[ipStr] {
		return true
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, ipNet := range rl.whitelist {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// Limit allows at most requests per window for each client IP on the routes
// it wraps. name identifies the route in keys and metrics.
func (rl *RateLimiter) Limit(name string, requests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if rl == nil || rl.isWhitelisted(ip) {
				next.ServeHTTP(w, r)
				return
			}

			now := rl.now()
			windowStart := now.Truncate(window)
			resetAt := windowStart.Add(window)

			key := "ratelimit:" + name + ":" + ip
			count, err := rl.counter.Hit(r.Context(), key, windowStart, window)
			if err != nil {
				rl.logger.Warn(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(requests-int(count), 0)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if count > int64(requests) {
				metrics.RateLimitHits.WithLabelValues(name).Inc()
				rl.logger.Warn(r.Context(), "rate limit exceeded", "ip", ip, "route", name)

				w.Header().Set("Retry-After", strconv.Itoa(int(resetAt.Sub(now).Seconds())+1))
				jsonError(w, http.StatusTooManyRequests, "Too many requests, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of RemoteAddr. chi's RealIP middleware has
// already replaced it with the forwarded address when there is one.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
