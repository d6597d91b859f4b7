package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/controllers/api"
)

// ValidateAPIKey guards operational endpoints (metrics) with a shared key
// carried in X-API-KEY.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-KEY")
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			api.FailAbort(c, apperrors.Unauthenticated("invalid or missing API key"))
			return
		}
		c.Next()
	}
}
