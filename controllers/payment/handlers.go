package paymentControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderstack/checkout-api/apperr"
	orderControllers "github.com/orderstack/checkout-api/controllers/order"
)

type createIntentRequest struct {
	Items     []orderControllers.ItemInput `json:"items" binding:"required"`
	AddressID string                       `json:"address_id" binding:"required"`
}

type webhookRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// POST /payments/intent
func CreateIntentHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": string(apperr.CodeUnauthorized)})
			return
		}

		var req createIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": string(apperr.CodeInvalidInput), "details": err.Error()})
			return
		}

		result, err := svc.CreateIntent(c.Request.Context(), userIDVal.(string), CreateIntentInput{
			Items:     req.Items,
			AddressID: req.AddressID,
		})
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// POST /payments/webhook
func WebhookHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req webhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": string(apperr.CodeInvalidInput), "details": err.Error()})
			return
		}
		result, err := svc.HandleEvent(c.Request.Context(), req.SessionID, req.Status)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /payments/confirm?session_id=
// Client-redirect variant of the webhook success path.
func ConfirmRedirectHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": string(apperr.CodeInvalidInput), "details": "session_id is required"})
			return
		}
		result, err := svc.Confirm(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
