package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/controllers/api"
	"github.com/shopcore/storefront-api/models"
)

// GET /orders/export (admin)
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Lines").Order("created_at DESC").Find(&orders).Error; err != nil {
			api.Fail(c, apperrors.Internal(err))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			api.Fail(c, apperrors.Internal(err))
			return
		}

		headers := []string{
			"ID", "OrderRef", "UserID", "Status", "PaymentStatus", "PaymentMethod",
			"TotalAmount", "TrackingNumber", "Country", "City", "Street", "PostalCode",
			"CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.OrderRef)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.PaymentMethod)
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(o.TrackingNumber)
			row.AddCell().SetValue(o.ShippingAddress.Country)
			row.AddCell().SetValue(o.ShippingAddress.City)
			row.AddCell().SetValue(o.ShippingAddress.Street)
			row.AddCell().SetValue(o.ShippingAddress.PostalCode)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		lineSheet, err := file.AddSheet("Lines")
		if err != nil {
			api.Fail(c, apperrors.Internal(err))
			return
		}
		lineHeader := lineSheet.AddRow()
		for _, h := range []string{"OrderID", "OrderRef", "ProductID", "Quantity", "PriceSnapshot"} {
			lineHeader.AddCell().SetValue(h)
		}
		for _, o := range orders {
			for _, line := range o.Lines {
				row := lineSheet.AddRow()
				row.AddCell().SetValue(o.ID)
				row.AddCell().SetValue(o.OrderRef)
				row.AddCell().SetValue(line.ProductID)
				row.AddCell().SetValue(line.Quantity)
				row.AddCell().SetValue(line.PriceSnapshot)
			}
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="orders.xlsx"`)
		c.Status(http.StatusOK)
		if err := file.Write(c.Writer); err != nil {
			// Headers are gone already; just log through gin's error list.
			_ = c.Error(err)
		}
	}
}
