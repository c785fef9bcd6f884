package routes

import (
	"github.com/gin-gonic/gin"

	analyticsControllers "github.com/orderstack/checkout-api/controllers/analytics"
	orderControllers "github.com/orderstack/checkout-api/controllers/order"
	"github.com/orderstack/checkout-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key
// middleware.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(deps.Orders))
			orderAdmin.PATCH("", orderControllers.BulkStatusHandler(deps.Orders))

			// websocket endpoint for real-time order updates
			orderAdmin.GET("/ws", deps.Feed.Handler)
		}

		// ─────────── Analytics ───────────
		analyticsAdmin := adminGroup.Group("/analytics")
		{
			analyticsAdmin.GET("", analyticsControllers.DashboardHandler(deps.Analytics))
			analyticsAdmin.GET("/orders.xlsx", analyticsControllers.ExportOrdersToExcel(deps.DB))
		}
	}
}
