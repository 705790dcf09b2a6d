package productcontroller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/services"
	"github.com/aarohi-jewels/storefront-api/store"
)

// UpdateProduct patches the fields present in the form. Absent fields keep
// their stored values.
func UpdateProduct(st store.Store, uploader services.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		fields := map[string]interface{}{
			"updatedAt": time.Now().Format(time.RFC3339Nano),
		}
		for form, doc := range map[string]string{
			"name":        "name",
			"description": "description",
			"category":    "category",
			"material":    "material",
		} {
			if v := c.PostForm(form); v != "" {
				fields[doc] = v
			}
		}
		if priceStr := c.PostForm("price"); priceStr != "" {
			price, err := strconv.ParseFloat(priceStr, 64)
			if err != nil || price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			fields["price"] = price
		}
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, err := strconv.Atoi(stockStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			fields["stock"] = stock
		}

		if fileHeader, ferr := c.FormFile("image"); ferr == nil {
			file, oerr := fileHeader.Open()
			if oerr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
				return
			}
			defer file.Close()

			url, uerr := uploader.UploadImage(c.Request.Context(), file, fileHeader.Filename)
			if uerr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
				return
			}
			fields["imageUrl"] = url
		}

		if err := st.Update(c.Request.Context(), store.CollectionProducts, id, fields); err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
	}
}
