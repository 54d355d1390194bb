// Package orders implements order submission from the cart and the order
// list, refresh and cancellation flows against the delivery backend.
package orders

import (
	"context"
	"errors"

	"github.com/ashendes/delivery-client/internal/models"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotCancellable     = errors.New("order can no longer be cancelled")
)

// OrderAPI is the slice of the backend client the order flows use
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) error
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
}

// EventPublisher receives an event after every successful order mutation
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderEvent(context.Context, models.OrderEvent) error { return nil }
