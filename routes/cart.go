package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/shopcore/storefront-api/controllers/cart"
	"github.com/shopcore/storefront-api/middleware"
)

// SetupCartRoutes registers the "/cart/*" endpoints. All of them accept a
// guest session or a user token; the merge additionally requires a user.
func SetupCartRoutes(r *gin.Engine, d Deps) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ResolveOwner(d.Config.JWTSecret))
	{
		cartGroup.GET("", cartControllers.GetCart(d.Carts))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Carts))
		cartGroup.GET("/validate", cartControllers.ValidateCart(d.Carts))

		cartGroup.POST("/items", cartControllers.AddItem(d.Carts))
		cartGroup.PUT("/items/:product_id", cartControllers.UpdateItem(d.Carts))
		cartGroup.DELETE("/items/:product_id", cartControllers.RemoveItem(d.Carts))
	}

	// Merge runs right after login, so it carries the fresh user token.
	r.POST("/cart/merge",
		middleware.RequireUser(d.Config.JWTSecret),
		cartControllers.MergeCart(d.Carts))
}
