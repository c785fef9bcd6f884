package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/orderstack/checkout-api/controllers/order"
	"github.com/orderstack/checkout-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Create a new order
		orders.POST("", orderControllers.PlaceOrderHandler(deps.Orders))

		// Fetch the caller's orders with items, address and payment
		orders.GET("", orderControllers.GetUserOrdersHandler(deps.Orders))
	}
}
