// Package middleware provides the HTTP middleware stack for the API.
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kunalsingla/product-api/pkg/cache"
)

// bucket tracks a fixed-window request count for one IP.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

var (
	bucketsMu sync.Mutex
	buckets   = map[string]*bucket{}
)

func init() {
	// Background goroutine: evict buckets whose window has expired.
	// Runs every minute; prevents unbounded memory growth on long-running servers.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			bucketsMu.Lock()
			for ip, b := range buckets {
				b.mu.Lock()
				expired := now.After(b.resetAt)
				b.mu.Unlock()
				if expired {
					delete(buckets, ip)
				}
			}
			bucketsMu.Unlock()
		}
	}()
}

func getBucket(ip string, window time.Duration) *bucket {
	bucketsMu.Lock()
	defer bucketsMu.Unlock()

	if b, ok := buckets[ip]; ok {
		return b
	}

	b := &bucket{resetAt: time.Now().Add(window)}
	buckets[ip] = b
	return b
}

// allowRedis counts the request in a shared Redis fixed window so limits
// hold across replicas. Returns (allowed, true) when Redis answered, or
// (false, false) when Redis is unavailable and the in-memory bucket
// should decide instead.
func allowRedis(ip string, max int, window time.Duration) (bool, bool) {
	if cache.RDB == nil {
		return false, false
	}

	key := fmt.Sprintf("rate_limit:%s", ip)
	n, err := cache.RDB.Incr(cache.Ctx, key).Result()
	if err != nil {
		return false, false
	}
	if n == 1 {
		cache.RDB.Expire(cache.Ctx, key, window)
	}
	return n <= int64(max), true
}

// RateLimit returns a middleware that limits each IP to max requests per
// window. The counter lives in Redis when available (shared across
// replicas), otherwise in process memory.
// Example: middleware.RateLimit(100, time.Minute)
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				ip = fwd
			}

			allowed, viaRedis := allowRedis(ip, max, window)
			if !viaRedis {
				allowed = getBucket(ip, window).allow(max, window)
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"status":429,"message":"Too Many Requests"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
