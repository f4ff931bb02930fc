package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductCreated  EventType = "product_created"
	EventProductUpdated  EventType = "product_updated"
	EventProductDeleted  EventType = "product_deleted"
	EventFavoriteAdded   EventType = "favorite_added"
	EventFavoriteRemoved EventType = "favorite_removed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProductID string      `json:"product_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProductChangedPayload payload for catalog mutations.
type ProductChangedPayload struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// FavoriteTogglePayload payload for favorite add/remove.
type FavoriteTogglePayload struct {
	UserID        string `json:"user_id"`
	FavoriteCount int    `json:"favorite_count"`
}
