package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// In-memory fixed-window counters keyed by client IP. The window boundary is
// wall-clock aligned, so a burst straddling it can see up to twice the limit.
// Good for a single-instance deployment; a multi-instance setup needs a
// shared store.

type bucket struct {
	window time.Time
	count  int
}

type rateLimiter struct {
	mu   sync.Mutex
	data map[string]bucket
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{data: make(map[string]bucket)}
}

// allow reports whether a request identified by key fits within limit per
// window, counting it when it does.
func (rl *rateLimiter) allow(key string, limit int, window time.Duration, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.data[key]
	win := now.Truncate(window)
	if !ok || b.window.Before(win) {
		rl.data[key] = bucket{window: win, count: 1}
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	rl.data[key] = b
	return true
}

// rateLimit enforces the configured per-IP limit. A non-positive limit
// disables it.
func (rt *Router) rateLimit() gin.HandlerFunc {
	limit := rt.cfg.RateLimitMax
	window := rt.cfg.RateLimitWindow
	return func(c *gin.Context) {
		if limit <= 0 || window <= 0 {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if !rt.limiter.allow(key, limit, window, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
