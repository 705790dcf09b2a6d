package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
)

// GetProductByID returns a single catalog product.
// URL param: /products/:id
func GetProductByID(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		record, err := st.Get(c.Request.Context(), store.CollectionProducts, id)
		if err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		var product models.Product
		if err := store.Decode(record.Data, &product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read product"})
			return
		}
		product.ID = record.Key
		c.JSON(http.StatusOK, product)
	}
}
