package models

import "time"

// Product is a catalog document in the `products` collection.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"` // Required
	OldPrice    float64   `json:"oldPrice,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	Category    string    `json:"category,omitempty"` // e.g. "rings", "necklaces"
	Material    string    `json:"material,omitempty"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
