package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/orderstack/checkout-api/apperr"
	"github.com/orderstack/checkout-api/models"
)

type placeOrderRequest struct {
	Items     []ItemInput     `json:"items" binding:"required"`
	AddressID string          `json:"address_id" binding:"required"`
	Total     decimal.Decimal `json:"total" binding:"required"`
}

type bulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required"`
	Status string   `json:"status" binding:"required"`
}

// POST /orders
func PlaceOrderHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": string(apperr.CodeUnauthorized)})
			return
		}
		userID := userIDVal.(string)

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": string(apperr.CodeInvalidInput), "details": err.Error()})
			return
		}

		orderID, err := svc.CreateOrder(c.Request.Context(), CreateOrderInput{
			UserID:    userID,
			AddressID: req.AddressID,
			Items:     req.Items,
			Total:     req.Total,
		})
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
	}
}

// GET /orders
func GetUserOrdersHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": string(apperr.CodeUnauthorized)})
			return
		}
		orders, err := svc.GetUserOrders(c.Request.Context(), userIDVal.(string))
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.GetAllOrders(c.Request.Context())
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PATCH /admin/orders
func BulkStatusHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": string(apperr.CodeInvalidInput), "details": err.Error()})
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": string(apperr.CodeInvalidInput), "details": err.Error()})
			return
		}
		result := svc.SetStatusMany(c.Request.Context(), req.IDs, status)
		c.JSON(http.StatusOK, result)
	}
}
