package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopcore/storefront-api/cart"
	"github.com/shopcore/storefront-api/config"
	orderControllers "github.com/shopcore/storefront-api/controllers/order"
	"github.com/shopcore/storefront-api/order"
)

// Deps carries everything the route groups need.
type Deps struct {
	DB     *gorm.DB
	Carts  *cart.Store
	Orders *order.Factory
	Hub    *orderControllers.Hub
	Config config.Config
	Log    *zap.Logger
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public auth routes (guest session issuance)
	SetupAuthRoutes(r, d)

	// Cart routes (guest session or user token)
	SetupCartRoutes(r, d)

	// Order routes (user token; admin mutations)
	SetupOrderRoutes(r, d)

	// Operational endpoints
	SetupOpsRoutes(r, d)
}
