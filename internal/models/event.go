package models

import "time"

// Order event types
const (
	OrderEventSubmitted = "order_submitted"
	OrderEventCancelled = "order_cancelled"
)

// OrderEvent is published after a successful order mutation
type OrderEvent struct {
	Type       string      `json:"type"`
	OrderID    string      `json:"order_id"`
	Status     OrderStatus `json:"status"`
	Total      float64     `json:"total,omitempty"`
	Restaurant string      `json:"restaurant,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}
