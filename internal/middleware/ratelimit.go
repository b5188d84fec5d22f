package middleware

import (
	"net/http"
	"strconv"

	"dgstudios-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit rejects clients that exceed limiter's budget for their IP. The IP
// is c.ClientIP, so forwarding headers count only from the engine's trusted
// proxies. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("ip", ip), zap.Error(err))
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(60))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later",
				"code":  "rate_limited",
			})
			return
		}

		c.Next()
	}
}
