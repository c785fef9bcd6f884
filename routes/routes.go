package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	analyticsControllers "github.com/orderstack/checkout-api/controllers/analytics"
	orderControllers "github.com/orderstack/checkout-api/controllers/order"
	paymentControllers "github.com/orderstack/checkout-api/controllers/payment"
)

// Deps carries the explicitly constructed services the route groups wire
// handlers to.
type Deps struct {
	DB        *gorm.DB
	Orders    *orderControllers.Service
	Payments  *paymentControllers.Service
	Analytics *analyticsControllers.Service
	Feed      *orderControllers.Feed
}

// SetupRoutes is the single entry-point that wires up the user, payment
// and admin route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// User routes (JWT-protected)
	SetupOrderRoutes(r, deps)

	// Payment routes (intent creation JWT-protected, webhook signed)
	SetupPaymentRoutes(r, deps)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, deps)
}
