package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/aarohi-jewels/storefront-api/controllers/order"
)

// SetupOrderRoutes registers the checkout submission endpoint and the live
// order feed.
func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	// Place a new order (the whole submission pipeline)
	r.POST("/checkout/submit", orderControllers.SubmitOrderHandler(deps.Orders))

	// websocket endpoint for real-time order updates
	hub := orderControllers.NewHub(deps.Store)
	r.GET("/orders/ws", hub.Handler)
}
