package middleware

import (
	"strings"

	"autobid/services/marketplace"

	"github.com/gin-gonic/gin"
)

// ForwardAuthToken copies the caller's bearer token into the request context
// so marketplace calls made on their behalf carry it. Tokens are not
// validated here; the marketplace rejects bad ones.
func ForwardAuthToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" && token != authHeader {
			c.Request = c.Request.WithContext(marketplace.WithAuthToken(c.Request.Context(), token))
		}
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}
