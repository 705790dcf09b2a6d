package productcontroller

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"

	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
)

// ImportProductsFromExcel bulk-loads catalog rows from an uploaded .xlsx.
// Expected columns: Name, Description, Price, OldPrice, Category, Material,
// Stock, ImageURL. The first row is treated as a header.
func ImportProductsFromExcel(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		workbook, err := xlsx.OpenBinary(data)
		if err != nil || len(workbook.Sheets) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Excel file"})
			return
		}

		imported, skipped := 0, 0
		for i, row := range workbook.Sheets[0].Rows {
			if i == 0 || len(row.Cells) < 3 {
				continue
			}

			name := strings.TrimSpace(row.Cells[0].String())
			price, perr := row.Cells[2].Float()
			if name == "" || perr != nil || price < 0 {
				skipped++
				continue
			}

			product := models.Product{
				ID:        uuid.NewString(),
				Name:      name,
				Price:     price,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if len(row.Cells) > 1 {
				product.Description = strings.TrimSpace(row.Cells[1].String())
			}
			if len(row.Cells) > 3 {
				if oldPrice, oerr := row.Cells[3].Float(); oerr == nil {
					product.OldPrice = oldPrice
				}
			}
			if len(row.Cells) > 4 {
				product.Category = strings.TrimSpace(row.Cells[4].String())
			}
			if len(row.Cells) > 5 {
				product.Material = strings.TrimSpace(row.Cells[5].String())
			}
			if len(row.Cells) > 6 {
				if stock, serr := row.Cells[6].Int(); serr == nil {
					product.Stock = stock
				}
			}
			if len(row.Cells) > 7 {
				product.ImageURL = strings.TrimSpace(row.Cells[7].String())
			}

			doc, derr := store.Encode(product)
			if derr != nil {
				skipped++
				continue
			}
			if serr := st.Set(c.Request.Context(), store.CollectionProducts, product.ID, doc, false); serr != nil {
				skipped++
				continue
			}
			imported++
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Import finished",
			"imported": imported,
			"skipped":  skipped,
		})
	}
}
