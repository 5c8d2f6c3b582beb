package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/choiben-assist/ai-backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	msgAuthRequired  = "Authorization header required"
	msgAuthFormat    = "Invalid authorization format"
	msgAuthBadAPIKey = "Invalid API key"
)

// Auth accepts only "Bearer <secret>". An empty secret rejects everything.
func Auth(secret string) gin.HandlerFunc {
	want := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, msgAuthRequired)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Unauthorized(c, msgAuthFormat)
			return
		}
		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(token), want) != 1 {
			response.Unauthorized(c, msgAuthBadAPIKey)
			return
		}
		c.Next()
	}
}
