package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/shopcore/storefront-api/controllers/order"
	"github.com/shopcore/storefront-api/middleware"
)

// SetupOrderRoutes registers the "/orders/*" endpoints.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.RequireUser(d.Config.JWTSecret))
	{
		orders.POST("", orderControllers.CreateOrder(d.Orders))
		orders.GET("", orderControllers.ListOrders(d.Orders))
		orders.GET("/:order_id", orderControllers.GetOrder(d.Orders))
		orders.PUT("/:order_id/cancel", orderControllers.CancelOrder(d.Orders))

		admin := orders.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.PUT("/:order_id/status", orderControllers.UpdateOrderStatus(d.Orders))
			admin.PUT("/:order_id/payment-status", orderControllers.UpdatePaymentStatus(d.Orders))
			admin.PUT("/:order_id/tracking", orderControllers.AddTrackingNumber(d.Orders))
			admin.GET("/export", orderControllers.ExportOrdersToExcel(d.DB))
			admin.GET("/ws", d.Hub.Handler())
		}
	}
}
