package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/storefront-api/metrics"
	"github.com/shopcore/storefront-api/middleware"
)

// SetupOpsRoutes registers health and metrics endpoints. These sit outside
// the JSON envelope: scrapers and load balancers expect raw bodies.
func SetupOpsRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics",
		middleware.ValidateAPIKey(d.Config.OpsAPIKey),
		gin.WrapH(metrics.Handler()))
}
