package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/careloop/clinic-api/pkg/httputil"
)

type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows ratePerSecond sustained requests with a burst of the
// same size.
func NewRateLimiter(ratePerSecond int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond)}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter.Allow() {
			c.Abort()
			httputil.Error(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded", "")
			return
		}
		c.Next()
	}
}
