package orders

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ashendes/delivery-client/internal/cache"
	"github.com/ashendes/delivery-client/internal/metrics"
	"github.com/ashendes/delivery-client/internal/models"
	"github.com/ashendes/delivery-client/internal/notify"
	log "github.com/sirupsen/logrus"
)

// Tracker defaults
const (
	DefaultStaleTime       = 2 * time.Minute
	DefaultRefreshInterval = 30 * time.Second
	DefaultActiveWindow    = 5 * time.Minute
)

// Partition splits an order list by lifecycle. Orders with a status outside the
// six known ones land in Unrecognized.
type Partition struct {
	Active       []models.Order `json:"active"`
	Historical   []models.Order `json:"historical"`
	Unrecognized []models.Order `json:"unrecognized"`
}

// Len counts every order in the partition
func (p Partition) Len() int {
	return len(p.Active) + len(p.Historical) + len(p.Unrecognized)
}

// PartitionOrders keeps the input order inside each bucket
func PartitionOrders(orders []models.Order) Partition {
	p := Partition{
		Active:       []models.Order{},
		Historical:   []models.Order{},
		Unrecognized: []models.Order{},
	}
	for _, order := range orders {
		switch {
		case order.Status.IsActive():
			p.Active = append(p.Active, order)
		case order.Status.IsTerminal():
			p.Historical = append(p.Historical, order)
		default:
			log.WithFields(log.Fields{
				"order_id": order.ID,
				"status":   string(order.Status),
			}).Warn("Order has unrecognized status")
			p.Unrecognized = append(p.Unrecognized, order)
		}
	}

	metrics.OrdersByBucket.WithLabelValues("active").Set(float64(len(p.Active)))
	metrics.OrdersByBucket.WithLabelValues("historical").Set(float64(len(p.Historical)))
	metrics.OrdersByBucket.WithLabelValues("unrecognized").Set(float64(len(p.Unrecognized)))
	return p
}

// TrackerConfig tunes the order list cache and polling
type TrackerConfig struct {
	StaleTime       time.Duration
	RefreshInterval time.Duration
	// ActiveWindow is how long after the last order read Watch keeps polling
	ActiveWindow time.Duration
}

// Tracker reads, refreshes and cancels orders
type Tracker struct {
	api      OrderAPI
	cache    cache.QueryCache
	notifier notify.Notifier
	events   EventPublisher
	cfg      TrackerConfig

	// unix nanos of the last client read, zero when never read
	lastRead atomic.Int64
	now      func() time.Time
}

// NewTracker builds the order tracker. nil notifier and events are replaced by no-ops.
func NewTracker(api OrderAPI, c cache.QueryCache, notifier notify.Notifier, events EventPublisher, cfg TrackerConfig) *Tracker {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = DefaultStaleTime
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.ActiveWindow <= 0 {
		cfg.ActiveWindow = DefaultActiveWindow
	}
	if events == nil {
		events = noopPublisher{}
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Tracker{api: api, cache: c, notifier: notifier, events: events, cfg: cfg, now: time.Now}
}

func (t *Tracker) markRead() {
	t.lastRead.Store(t.now().UnixNano())
}

// Watching reports whether a client read orders within the active window
func (t *Tracker) Watching() bool {
	last := t.lastRead.Load()
	if last == 0 {
		return false
	}
	return t.now().Sub(time.Unix(0, last)) <= t.cfg.ActiveWindow
}

func (t *Tracker) orders(ctx context.Context) ([]models.Order, error) {
	return cache.Query(ctx, t.cache, cache.KeyOrders, t.cfg.StaleTime, t.api.ListOrders)
}

// List returns the partitioned order list, served from cache while fresh
func (t *Tracker) List(ctx context.Context) (Partition, error) {
	t.markRead()
	return t.list(ctx)
}

func (t *Tracker) list(ctx context.Context) (Partition, error) {
	orders, err := t.orders(ctx)
	if err != nil {
		return Partition{}, fmt.Errorf("list orders: %w", err)
	}
	return PartitionOrders(orders), nil
}

// Refresh drops the cached list and fetches it again
func (t *Tracker) Refresh(ctx context.Context) (Partition, error) {
	t.markRead()
	return t.refresh(ctx)
}

func (t *Tracker) refresh(ctx context.Context) (Partition, error) {
	cache.InvalidateAll(ctx, t.cache, cache.KeyOrders)
	return t.list(ctx)
}

// Watch refreshes the order list every refresh interval until ctx is done.
// Ticks are skipped while no client has read orders within the active window,
// so an idle BFF does not poll the backend.
func (t *Tracker) Watch(ctx context.Context, fn func(Partition, error)) {
	ticker := time.NewTicker(t.cfg.RefreshInterval)
	defer ticker.Stop()

	log.WithFields(log.Fields{
		"interval":      t.cfg.RefreshInterval.String(),
		"active_window": t.cfg.ActiveWindow.String(),
	}).Info("Order watcher started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Order watcher stopped")
			return
		case <-ticker.C:
			if !t.Watching() {
				metrics.OrderPollsTotal.WithLabelValues("idle").Inc()
				continue
			}
			p, err := t.refresh(ctx)
			if err != nil {
				metrics.OrderPollsTotal.WithLabelValues("error").Inc()
				log.WithField("error", err.Error()).Warn("Periodic order refresh failed")
			} else {
				metrics.OrderPollsTotal.WithLabelValues("success").Inc()
			}
			if fn != nil {
				fn(p, err)
			}
		}
	}
}

// Get returns one order, cached under order:{id}
func (t *Tracker) Get(ctx context.Context, id string) (models.Order, error) {
	t.markRead()
	order, err := cache.Query(ctx, t.cache, cache.OrderKey(id), t.cfg.StaleTime, func(ctx context.Context) (models.Order, error) {
		return t.api.GetOrder(ctx, id)
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

// Cancel asks the backend to cancel orderID. Only pending and confirmed orders
// qualify; the status shown stays the last fetched one until the next read.
func (t *Tracker) Cancel(ctx context.Context, orderID string) error {
	t.markRead()
	orders, err := t.orders(ctx)
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}

	var target *models.Order
	for i := range orders {
		if orders[i].ID == orderID {
			target = &orders[i]
			break
		}
	}
	if target == nil {
		metrics.OrdersTotal.WithLabelValues("cancel", "not_found").Inc()
		return fmt.Errorf("cancel order %s: %w", orderID, ErrOrderNotFound)
	}
	if !target.Status.Cancellable() {
		metrics.OrdersTotal.WithLabelValues("cancel", "refused").Inc()
		return fmt.Errorf("cancel order %s with status %s: %w", orderID, target.Status, ErrNotCancellable)
	}

	if err := t.api.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		metrics.OrdersTotal.WithLabelValues("cancel", "failed").Inc()
		log.WithFields(log.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		}).Error("Order cancellation failed")
		t.notifier.Notify(notify.LevelError, "Erro", "Não foi possível cancelar o pedido.")
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}

	cache.InvalidateAll(ctx, t.cache, cache.KeyOrders, cache.OrderKey(orderID))
	metrics.OrdersTotal.WithLabelValues("cancel", "success").Inc()
	log.WithField("order_id", orderID).Info("Order cancelled")
	t.notifier.Notify(notify.LevelSuccess, "Pedido cancelado", "O pedido #"+orderID+" foi cancelado.")

	if err := t.events.PublishOrderEvent(ctx, models.OrderEvent{
		Type:       models.OrderEventCancelled,
		OrderID:    orderID,
		Status:     models.OrderStatusCancelled,
		Total:      target.Total,
		Restaurant: target.Restaurant.Name,
		Timestamp:  time.Now(),
	}); err != nil {
		log.WithFields(log.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		}).Warn("Failed to publish order event")
	}
	return nil
}
