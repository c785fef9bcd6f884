package analyticsControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderstack/checkout-api/apperr"
)

// GET /admin/analytics?days=30&low_stock=10
func DashboardHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(DefaultWindowDays)))
		threshold, _ := strconv.Atoi(c.DefaultQuery("low_stock", strconv.Itoa(DefaultLowStockThreshold)))

		report, err := svc.Dashboard(c.Request.Context(), days, threshold)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), apperr.Body(err))
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
