package productcontroller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/store"
)

// AdminSnapshotKey is the local-storage key the admin panel's product list
// is mirrored under, so the panel still renders while the store is down.
const AdminSnapshotKey = "admin_products"

// Snapshotter is the slice of local storage the admin mirror needs.
type Snapshotter interface {
	Get(key string, v interface{}) (bool, error)
	Put(key string, v interface{}) error
}

// GetProducts lists the whole catalog, newest first.
func GetProducts(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := listProducts(c, st)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetAdminProducts is the admin-panel listing: same data, but mirrored into
// local storage on every successful read and served from that mirror when
// the store is unreachable.
func GetAdminProducts(st store.Store, kv Snapshotter) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := listProducts(c, st)
		if err != nil {
			if store.IsUnavailable(err) {
				var cached []models.Product
				if ok, kerr := kv.Get(AdminSnapshotKey, &cached); kerr == nil && ok {
					log.Printf("⚠️ Store unreachable, serving admin products from local snapshot")
					c.JSON(http.StatusOK, gin.H{"products": cached, "fromCache": true})
					return
				}
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		if err := kv.Put(AdminSnapshotKey, products); err != nil {
			log.Printf("❌ Failed to mirror admin products: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "fromCache": false})
	}
}

func listProducts(c *gin.Context, st store.Store) ([]models.Product, error) {
	records, err := st.List(c.Request.Context(), store.CollectionProducts, "-createdAt")
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(records))
	for _, r := range records {
		var p models.Product
		if derr := store.Decode(r.Data, &p); derr != nil {
			log.Printf("❌ Skipping undecodable product %s: %v", r.Key, derr)
			continue
		}
		p.ID = r.Key
		products = append(products, p)
	}
	return products, nil
}
