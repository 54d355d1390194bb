package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashendes/delivery-client/internal/cache"
	"github.com/ashendes/delivery-client/internal/cart"
	"github.com/ashendes/delivery-client/internal/metrics"
	"github.com/ashendes/delivery-client/internal/models"
	"github.com/ashendes/delivery-client/internal/notify"
	"github.com/ashendes/delivery-client/internal/patterns"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DateLayout is the display format of Order.Date
const DateLayout = "02/01/2006 - 15:04"

// NewOrderID returns a time-ordered UUIDv7
func NewOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// BuildOrderRequest projects a cart snapshot into the creation payload. The
// restaurant summary comes from the first entry; prices are not persisted per item.
func BuildOrderRequest(id string, items []models.CartItem, total decimal.Decimal, now time.Time) models.CreateOrderRequest {
	req := models.CreateOrderRequest{
		ID:     id,
		Status: models.OrderStatusPending,
		Date:   now.Format(DateLayout),
		Total:  total.Round(2).InexactFloat64(),
		Restaurant: models.OrderRestaurant{
			Name:  models.PlaceholderRestaurantName,
			Image: models.PlaceholderImage,
		},
		Items: make([]models.OrderItem, 0, len(items)),
	}

	if len(items) > 0 {
		if items[0].RestaurantName != "" {
			req.Restaurant.Name = items[0].RestaurantName
		}
		if items[0].Image != "" {
			req.Restaurant.Image = items[0].Image
		}
	}
	for _, item := range items {
		req.Items = append(req.Items, models.OrderItem{Name: item.Name, Quantity: item.Quantity})
	}
	return req
}

// Submitter turns the cart into a backend order
type Submitter struct {
	api      OrderAPI
	cart     *cart.Store
	cache    cache.QueryCache
	view     *ViewState
	notifier notify.Notifier
	events   EventPublisher
	guard    *patterns.Bulkhead
	now      func() time.Time
	newID    func() string
}

// NewSubmitter builds the checkout flow over the shared cart and view state
func NewSubmitter(api OrderAPI, store *cart.Store, c cache.QueryCache, view *ViewState, notifier notify.Notifier, events EventPublisher) *Submitter {
	if events == nil {
		events = noopPublisher{}
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Submitter{
		api:      api,
		cart:     store,
		cache:    c,
		view:     view,
		notifier: notifier,
		events:   events,
		// one submission at a time, extra taps are refused rather than queued
		guard: patterns.NewBulkhead(1, 0, "order-submission", "delivery-bff"),
		now:   time.Now,
		newID: NewOrderID,
	}
}

// InFlight reports whether a submission is running
func (s *Submitter) InFlight() bool {
	return s.guard.InFlight() > 0
}

// Submit sends the current cart as a new order. On success only the submitted
// quantities leave the cart; on failure the cart is kept.
func (s *Submitter) Submit(ctx context.Context) (models.Order, error) {
	items, total := s.cart.Snapshot()
	if len(items) == 0 {
		metrics.OrdersTotal.WithLabelValues("submit", "empty_cart").Inc()
		return models.Order{}, ErrEmptyCart
	}

	var order models.Order
	err := s.guard.Execute(func() error {
		req := BuildOrderRequest(s.newID(), items, total, s.now())

		if err := s.api.CreateOrder(ctx, req); err != nil {
			return err
		}
		order = req.Order()
		return nil
	})

	if errors.Is(err, patterns.ErrBulkheadFull) {
		metrics.OrdersTotal.WithLabelValues("submit", "in_flight").Inc()
		return models.Order{}, ErrSubmissionInFlight
	}
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("submit", "failed").Inc()
		log.WithFields(log.Fields{
			"items": len(items),
			"total": total.String(),
			"error": err.Error(),
		}).Error("Order submission failed")
		s.notifier.Notify(notify.LevelError, "Erro", "Não foi possível realizar o pedido.")
		return models.Order{}, fmt.Errorf("submit order: %w", err)
	}

	cache.InvalidateAll(ctx, s.cache, cache.KeyOrders)
	s.cart.RemoveSubmitted(items)
	s.view.Set(ViewActiveOrders)

	metrics.OrdersTotal.WithLabelValues("submit", "success").Inc()
	metrics.OrderAmount.Observe(order.Total)
	log.WithFields(log.Fields{
		"order_id":   order.ID,
		"restaurant": order.Restaurant.Name,
		"total":      order.Total,
	}).Info("Order submitted")

	s.notifier.Notify(notify.LevelSuccess, "Pedido realizado", "Seu pedido foi enviado para "+order.Restaurant.Name+".")
	s.publish(ctx, models.OrderEvent{
		Type:       models.OrderEventSubmitted,
		OrderID:    order.ID,
		Status:     order.Status,
		Total:      order.Total,
		Restaurant: order.Restaurant.Name,
		Timestamp:  s.now(),
	})

	return order, nil
}

func (s *Submitter) publish(ctx context.Context, event models.OrderEvent) {
	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"order_id": event.OrderID,
			"type":     event.Type,
			"error":    err.Error(),
		}).Warn("Failed to publish order event")
	}
}
