package orderControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/aarohi-jewels/storefront-api/orders"
)

// ExportOrdersToExcel streams all orders as an .xlsx download.
// GET /admin/orders/export-excel
func ExportOrdersToExcel(ctrl *orders.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, _, err := ctrl.ListOrders(c.Request.Context())
		if err != nil {
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
			"OrderID", "Status", "Customer", "Mobile", "Pincode",
			"Items", "Subtotal", "Shipping", "Total", "CreatedAt", "LocalOnly",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range list {
			var lines []string
			for _, item := range o.Items {
				lines = append(lines, item.Name+" x"+strconv.Itoa(item.Quantity))
			}

			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.Customer.Name)
			row.AddCell().SetValue(o.Customer.Mobile)
			row.AddCell().SetValue(o.Customer.Pincode)
			row.AddCell().SetValue(strings.Join(lines, ", "))
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.Shipping)
			row.AddCell().SetValue(o.Total)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(o.LocalOnly)
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
