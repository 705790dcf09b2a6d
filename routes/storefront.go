package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/aarohi-jewels/storefront-api/controllers/cart"
	productcontroller "github.com/aarohi-jewels/storefront-api/controllers/product"
)

// SetupStorefrontRoutes registers the public catalog and cart endpoints.
func SetupStorefrontRoutes(r *gin.Engine, deps Deps) {
	// ──────────────── Browse Products ────────────────
	r.GET("/products", productcontroller.GetProducts(deps.Store))
	r.GET("/products/:id", productcontroller.GetProductByID(deps.Store))

	// ──────────────── Shopping Cart ────────────────
	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetCart(deps.Cart))
		cartGroup.POST("/items", cartControllers.AddToCart(deps.Store, deps.Cart))
		cartGroup.PUT("/items", cartControllers.UpdateQuantity(deps.Cart))
		cartGroup.DELETE("/items/:product_id", cartControllers.RemoveFromCart(deps.Cart))
		cartGroup.DELETE("", cartControllers.ClearCart(deps.Cart))
		cartGroup.GET("/checkout", cartControllers.GetCheckoutSnapshot(deps.Cart))
	}
}
