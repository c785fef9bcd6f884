package analyticsControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/orderstack/checkout-api/models"
)

// GET /admin/analytics/orders.xlsx?days=30
// Spreadsheet export of the window's orders for analytics readers.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(DefaultWindowDays)))
		if days <= 0 {
			days = DefaultWindowDays
		}
		since := time.Now().UTC().AddDate(0, 0, -days)

		var orders []models.Order
		if err := db.
			Preload("Items").
			Preload("Payment").
			Where("created_at >= ?", since).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "UserID", "Status", "PaymentStatus", "Total", "Items", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			paymentStatus := ""
			if o.Payment != nil {
				paymentStatus = string(o.Payment.Status)
			}
			itemCount := 0
			for _, it := range o.Items {
				itemCount += it.Quantity
			}

			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(paymentStatus)
			row.AddCell().SetValue(o.Total.String())
			row.AddCell().SetValue(itemCount)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
