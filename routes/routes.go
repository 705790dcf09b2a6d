package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/cart"
	"github.com/aarohi-jewels/storefront-api/config"
	"github.com/aarohi-jewels/storefront-api/localstore"
	"github.com/aarohi-jewels/storefront-api/orders"
	"github.com/aarohi-jewels/storefront-api/services"
	"github.com/aarohi-jewels/storefront-api/store"
)

// Deps is the explicit context object every route group draws from. Built
// once in main; nothing here is package-level state.
type Deps struct {
	Cfg      *config.Config
	Store    store.Store
	Local    *localstore.Store
	Cart     *cart.Store
	Orders   *orders.Controller
	Uploader services.Uploader
}

// SetupRoutes is the single entry point that wires up the storefront,
// order and admin route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// 1️⃣ Public storefront routes (no middleware)
	SetupStorefrontRoutes(r, deps)

	// 2️⃣ Order routes (checkout submit + live feed)
	SetupOrderRoutes(r, deps)

	// 3️⃣ Admin routes (login + token/API-key protected management)
	SetupAdminRoutes(r, deps)
}
