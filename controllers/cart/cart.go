package cartControllers

import (
	"context"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/cart"
	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
)

// confirmKey carries the clear-cart confirmation decision through the
// request context into the cart store's confirmation collaborator.
type confirmKey struct{}

// ConfirmFromContext is the ConfirmFunc wired into the cart store: the
// explicit ?confirm=true sent by the client is the affirmation.
func ConfirmFromContext(ctx context.Context, prompt string) (bool, error) {
	ok, _ := ctx.Value(confirmKey{}).(bool)
	return ok, nil
}

type addItemInput struct {
	ProductID interface{} `json:"product_id" binding:"required"`
}

type quantityInput struct {
	ProductID interface{} `json:"product_id" binding:"required"`
	// Quantity arrives as a JSON number; fractional input is truncated,
	// negative input removes the line.
	Quantity float64 `json:"quantity"`
}

// GET /cart
func GetCart(cartStore *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"items":  cartStore.Items(),
			"totals": cartStore.Totals(),
		})
	}
}

// POST /cart/items
func AddToCart(st store.Store, cartStore *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input addItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		id := cart.NormalizeID(input.ProductID)

		// Fetch the product so the cart line carries its fields.
		record, err := st.Get(c.Request.Context(), store.CollectionProducts, id)
		if err != nil {
			if store.IsNotFound(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		var product models.Product
		if err := store.Decode(record.Data, &product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read product"})
			return
		}
		product.ID = record.Key

		if err := cartStore.AddItem(product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Item added to cart",
			"totals":  cartStore.Totals(),
		})
	}
}

// PUT /cart/items
func UpdateQuantity(cartStore *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input quantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cartStore.UpdateQuantity(input.ProductID, int(math.Trunc(input.Quantity)))
		c.JSON(http.StatusOK, gin.H{"totals": cartStore.Totals()})
	}
}

// DELETE /cart/items/:product_id
func RemoveFromCart(cartStore *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartStore.RemoveItem(c.Param("product_id"))
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart item removed",
			"totals":  cartStore.Totals(),
		})
	}
}

// DELETE /cart?confirm=true
func ClearCart(cartStore *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		confirmed := c.Query("confirm") == "true"
		ctx := context.WithValue(c.Request.Context(), confirmKey{}, confirmed)

		cleared, err := cartStore.Clear(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		if !cleared && !confirmed && cartStore.Totals().ItemCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Confirmation required", "confirmRequired": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /cart/checkout
func GetCheckoutSnapshot(cartStore *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartStore.Snapshot())
	}
}
