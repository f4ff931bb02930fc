package domain

import "time"

// DefaultCategory is applied when a product is created without a category.
const DefaultCategory = "General"

// Product is a catalog entry. Favorite lists reference products by id only
// (soft reference): deleting a product does not clean up favorite lists.
type Product struct {
	ID          string
	Title       string
	Price       float64
	Description string
	Image       string
	Category    string
	CreatedAt   time.Time
}
