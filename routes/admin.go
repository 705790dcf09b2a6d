package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/auth"
	orderControllers "github.com/aarohi-jewels/storefront-api/controllers/order"
	productcontroller "github.com/aarohi-jewels/storefront-api/controllers/product"
	"github.com/aarohi-jewels/storefront-api/middleware"
)

// SetupAdminRoutes registers the admin login and every "/admin/*" endpoint.
// Management routes accept either the admin JWT or the service API key.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	r.POST("/auth/admin/login", auth.AdminLoginHandler(deps.Cfg.AdminPassHash, deps.Cfg.JWTSecret))

	adminGroup := r.Group("/admin")
	adminGroup.Use(adminGate(deps))
	{
		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(deps.Store, deps.Uploader))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(deps.Store, deps.Uploader))
			productAdmin.GET("", productcontroller.GetAdminProducts(deps.Store, deps.Local))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(deps.Store))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(deps.Store))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(deps.Store))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(deps.Orders))
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(deps.Orders))
			orderAdmin.GET("/:orderID", orderControllers.GetOrderByIDHandler(deps.Orders))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(deps.Orders))
			orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(deps.Orders))
		}
	}
}

// adminGate accepts the JWT issued at login, falling back to the static
// API key when one is configured.
func adminGate(deps Deps) gin.HandlerFunc {
	jwtCheck := middleware.ValidateAdminToken(deps.Cfg.JWTSecret)
	keyCheck := middleware.ValidateAPIKey(deps.Cfg.AdminAPIKey)
	return func(c *gin.Context) {
		if deps.Cfg.AdminAPIKey != "" && c.GetHeader("X-API-KEY") != "" {
			keyCheck(c)
			return
		}
		jwtCheck(c)
	}
}
