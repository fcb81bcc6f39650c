package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	resp "newsportal/internal/transport/http/response"
)

// RateLimit is a single token bucket shared by every caller.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}

// RateLimitPerIP keeps one bucket per client IP. At most maxIPs buckets are held;
// the least recently seen IP is evicted and starts over with a full bucket.
func RateLimitPerIP(rps rate.Limit, burst, maxIPs int) gin.HandlerFunc {
	if maxIPs <= 0 {
		maxIPs = 10000
	}
	buckets, _ := lru.New[string, *rate.Limiter](maxIPs)
	var mu sync.Mutex
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := buckets.Get(ip)
		if !ok {
			lim = rate.NewLimiter(rps, burst)
			buckets.Add(ip, lim)
		}
		mu.Unlock()
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}
