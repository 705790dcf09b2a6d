package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/store"
)

// DeleteProduct removes a product from the catalog.
func DeleteProduct(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		if err := st.Delete(c.Request.Context(), store.CollectionProducts, id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
