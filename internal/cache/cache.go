// Package cache holds server state fetched from the delivery backend under
// colon-separated query keys, with prefix invalidation.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ashendes/delivery-client/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// Query keys used across the client
const (
	KeyOrders      = "orders"
	KeyRestaurants = "restaurants"
	KeyAllProducts = "products:all"
)

// Key joins query key parts with ":"
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// OrderKey is the key of a single order
func OrderKey(id string) string { return Key("order", id) }

// RestaurantKey is the key of a single restaurant
func RestaurantKey(id string) string { return Key("restaurant", id) }

// ProductsKey is the key of a restaurant's product list
func ProductsKey(restaurantID string) string { return Key("products", "restaurant", restaurantID) }

// QueryCache stores encoded query results. Invalidate removes the exact key and
// every key below it ("orders" also drops "orders:active", never "order:50").
type QueryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Backend() string
}

func matches(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+":")
}

// Query reads key from c, falling back to fetch on a miss and storing the result
// for ttl. Cache failures are logged and never fail the read.
func Query[T any](ctx context.Context, c QueryCache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if data, ok, err := c.Get(ctx, key); err != nil {
		log.WithFields(log.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Query cache read failed")
	} else if ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			metrics.CacheLookups.WithLabelValues(c.Backend(), "hit").Inc()
			return value, nil
		}
		log.WithField("key", key).Warn("Discarding undecodable cache entry")
	}
	metrics.CacheLookups.WithLabelValues(c.Backend(), "miss").Inc()

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		log.WithFields(log.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Query cache write failed")
	}
	return value, nil
}

// InvalidateAll drops every given key, logging failures
func InvalidateAll(ctx context.Context, c QueryCache, keys ...string) {
	for _, key := range keys {
		if err := c.Invalidate(ctx, key); err != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"error": err.Error(),
			}).Warn("Query cache invalidation failed")
		}
	}
}
