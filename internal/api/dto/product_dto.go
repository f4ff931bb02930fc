package dto

import "time"

// ProductResponse is the wire shape for a catalog entry. Price travels as a
// JSON number; fixed 2-decimal rendering is a client concern.
type ProductResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductListResponse is one page of catalog results.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// ProductUpsertRequest payload for create/update of a product.
type ProductUpsertRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// FavoriteCheckResponse reports favorite membership.
type FavoriteCheckResponse struct {
	IsFavorite bool `json:"isFavorite"`
}
