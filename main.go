package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/cart"
	"github.com/aarohi-jewels/storefront-api/config"
	cartControllers "github.com/aarohi-jewels/storefront-api/controllers/cart"
	"github.com/aarohi-jewels/storefront-api/localcache"
	"github.com/aarohi-jewels/storefront-api/localstore"
	"github.com/aarohi-jewels/storefront-api/orders"
	"github.com/aarohi-jewels/storefront-api/routes"
	"github.com/aarohi-jewels/storefront-api/services"
	"github.com/aarohi-jewels/storefront-api/store"
	"github.com/aarohi-jewels/storefront-api/whatsapp"
)

func main() {
	log.Println("✅ Starting storefront API...")

	cfg := config.Load()
	ctx := context.Background()

	// Durable local storage (cart, order fallback cache, admin snapshot)
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("❌ Failed to create data dir: %v", err)
	}
	local, err := localstore.Open(filepath.Join(cfg.DataDir, "storefront.db"))
	if err != nil {
		log.Fatalf("❌ Failed to open local store: %v", err)
	}

	// Remote document store
	st := initStore(ctx, cfg)

	// Shipping policy can be overridden from the settings collection.
	shipping := loadShippingPolicy(ctx, cfg, st)

	// Cart, fallback cache, hand-off
	cartStore := cart.New(local, shipping, cartControllers.ConfirmFromContext)
	defer cartStore.Close()
	orderCache := localcache.New(local)

	qrGen := &whatsapp.Generator{
		UploadDir:     filepath.Join(cfg.UploadDir, "qrfiles"),
		PublicBaseURL: cfg.PublicBaseURL,
		ServiceURL:    cfg.QRServiceURL,
	}

	orderCtrl := orders.NewController(st, cartStore, orderCache, qrGen, cfg.WhatsAppPhone, cfg.Currency)
	defer orderCtrl.Watcher().Stop()

	// Product image uploads: Cloudinary when configured, local disk otherwise
	var uploader services.Uploader
	if cfg.CloudinaryURL != "" {
		cld, err := services.NewCloudinaryUploader(cfg.CloudinaryURL, "products")
		if err != nil {
			log.Fatalf("❌ Failed to initialize Cloudinary: %v", err)
		}
		uploader = cld
	} else {
		uploader = &services.DiskUploader{UploadDir: cfg.UploadDir, PublicBaseURL: cfg.PublicBaseURL}
	}

	// Gin setup
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Static serving for uploaded images and generated QR codes
	r.Static("/uploads", cfg.UploadDir)
	r.Static("/qrfiles", filepath.Join(cfg.UploadDir, "qrfiles"))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	routes.SetupRoutes(r, routes.Deps{
		Cfg:      cfg,
		Store:    st,
		Local:    local,
		Cart:     cartStore,
		Orders:   orderCtrl,
		Uploader: uploader,
	})

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initStore connects to Firestore when a project is configured and falls
// back to the in-memory store for local development.
func initStore(ctx context.Context, cfg *config.Config) store.Store {
	if cfg.FirebaseProjectID == "" {
		log.Println("⚠️ No Firebase project configured, using in-memory store")
		return store.NewMemory()
	}

	fs, err := store.NewFirestore(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Firestore: %v", err)
	}
	return fs
}

// loadShippingPolicy applies any shipping override stored in the settings
// collection on top of the configured defaults.
func loadShippingPolicy(ctx context.Context, cfg *config.Config, st store.Store) config.ShippingPolicy {
	policy := cfg.Shipping

	record, err := st.Get(ctx, store.CollectionSettings, "shipping")
	if err != nil {
		if !store.IsNotFound(err) {
			log.Printf("⚠️ Could not read shipping settings, using defaults: %v", err)
		}
		return policy
	}

	if mode, ok := record.Data["mode"].(string); ok && mode != "" {
		policy.Mode = config.ShippingMode(mode)
	}
	if fee, ok := record.Data["flatFee"].(float64); ok {
		policy.FlatFee = fee
	}
	if fee, ok := record.Data["thresholdFee"].(float64); ok {
		policy.ThresholdFee = fee
	}
	if above, ok := record.Data["freeAbove"].(float64); ok {
		policy.FreeAbove = above
	}
	return policy
}
