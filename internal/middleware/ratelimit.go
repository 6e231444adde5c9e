package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/admin"
)

// RateLimit counts the request against action for the calling user, falling
// back to the client IP, and answers 429 once the window is spent
func RateLimit(limiter *admin.RateLimiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.ClientIP()
		if id, ok := IdentityFrom(c); ok {
			actor = id.UserID
		}
		if !limiter.Allow(actor, action) {
			abort(c, http.StatusTooManyRequests, "rate_limited", "Too many "+action+" attempts. Please wait a moment.")
			return
		}
		c.Next()
	}
}
