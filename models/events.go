package models

import "time"

// Cart activity event types published to Kafka.
const (
	EventItemAdded     = "cart.item_added"
	EventItemUpdated   = "cart.item_updated"
	EventItemRemoved   = "cart.item_removed"
	EventStockConflict = "cart.stock_conflict"
	EventCartCleared   = "cart.cleared"
)

// CartEvent is the payload published for cart activity.
type CartEvent struct {
	Event     string    `json:"event"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id,omitempty"`
	ItemID    string    `json:"item_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
