package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/orderstack/checkout-api/controllers/payment"
	"github.com/orderstack/checkout-api/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	payments := r.Group("/payments")
	{
		// Payment intent creation for the hosted confirmation UI
		payments.POST("/intent",
			middleware.ValidateToken,
			paymentControllers.CreateIntentHandler(deps.Payments),
		)

		// Webhook endpoint: middleware handles sandbox/prod verification
		payments.POST("/webhook",
			middleware.StripeWebhookAuth(),
			paymentControllers.WebhookHandler(deps.Payments),
		)

		// Client-redirect confirmation path
		payments.GET("/confirm", paymentControllers.ConfirmRedirectHandler(deps.Payments))
	}
}
