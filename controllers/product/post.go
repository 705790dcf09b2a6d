package productcontroller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aarohi-jewels/storefront-api/models"
	"github.com/aarohi-jewels/storefront-api/services"
	"github.com/aarohi-jewels/storefront-api/store"
)

// CreateProduct creates a new catalog product with an optional image upload.
func CreateProduct(st store.Store, uploader services.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Required fields
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		product := models.Product{
			ID:          uuid.NewString(),
			Name:        name,
			Description: c.PostForm("description"),
			Price:       price,
			Category:    c.PostForm("category"),
			Material:    c.PostForm("material"),
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		// Optional fields
		if oldPriceStr := c.PostForm("old_price"); oldPriceStr != "" {
			oldPrice, parseErr := strconv.ParseFloat(oldPriceStr, 64)
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid old_price"})
				return
			}
			product.OldPrice = oldPrice
		}
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, parseErr := strconv.Atoi(stockStr)
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			product.Stock = stock
		}

		// Image upload
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
			product.ImageURL = url
		} else if imageURL := c.PostForm("image_url"); imageURL != "" {
			product.ImageURL = imageURL
		}

		doc, err := store.Encode(product)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := st.Set(c.Request.Context(), store.CollectionProducts, product.ID, doc, false); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
