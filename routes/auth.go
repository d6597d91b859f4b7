package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shopcore/storefront-api/auth"
)

// SetupAuthRoutes registers the "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/guest", auth.CreateGuestSession(d.DB, d.Config.JWTSecret))
	}
}
