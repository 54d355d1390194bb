package models

// OrderStatus is the server-side lifecycle state of an order
type OrderStatus string

// OrderStatus constants
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// OrderStatusUnknown is assigned when the backend omits the status field
	OrderStatusUnknown OrderStatus = "unknown"
)

// Known reports whether s is one of the six statuses the backend declares
func (s OrderStatus) Known() bool {
	return s.IsActive() || s.IsTerminal()
}

// IsActive reports whether the order is still in progress
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusDelivering:
		return true
	}
	return false
}

// IsTerminal reports whether the order reached delivered or cancelled
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Cancellable reports whether a cancellation request may be issued
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// Placeholders used when the backend omits the restaurant summary
const (
	PlaceholderRestaurantName = "Restaurante"
	PlaceholderImage          = "https://placehold.co/100"
)

// OrderRestaurant is the restaurant summary frozen into an order
type OrderRestaurant struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// OrderItem is the persisted projection of a cart entry (price is not kept)
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Order represents a customer order as held by the backend
type Order struct {
	ID         string          `json:"id"`
	Status     OrderStatus     `json:"status"`
	Date       string          `json:"date"`
	Total      float64         `json:"total"`
	Restaurant OrderRestaurant `json:"restaurant"`
	Items      []OrderItem     `json:"items"`
}

// CreateOrderRequest represents the request to create a new order
type CreateOrderRequest struct {
	ID         string          `json:"id"`
	Status     OrderStatus     `json:"status"`
	Date       string          `json:"date"`
	Total      float64         `json:"total"`
	Restaurant OrderRestaurant `json:"restaurant"`
	Items      []OrderItem     `json:"items"`
}

// Order returns the snapshot the request describes
func (r CreateOrderRequest) Order() Order {
	items := make([]OrderItem, len(r.Items))
	copy(items, r.Items)
	return Order{
		ID:         r.ID,
		Status:     r.Status,
		Date:       r.Date,
		Total:      r.Total,
		Restaurant: r.Restaurant,
		Items:      items,
	}
}

// UpdateOrderStatusRequest is the body of PUT /orders/{id}
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
