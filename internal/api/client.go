// Package api is the typed client for the remote delivery backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ashendes/delivery-client/internal/metrics"
	"github.com/ashendes/delivery-client/internal/models"
	"github.com/ashendes/delivery-client/internal/patterns"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const serviceName = "delivery-bff"

// Credentials supplies the admin key for mutating catalog endpoints
type Credentials interface {
	AdminKey() string
}

// Config configures the backend client
type Config struct {
	BaseURL string
	// APIKey is sent as a bearer token on order endpoints when set
	APIKey        string
	Timeout       time.Duration
	MaxConcurrent int
	Circuit       patterns.CircuitSettings
}

// Client calls the delivery backend through a circuit breaker and a bulkhead
type Client struct {
	http     *resty.Client
	circuit  *patterns.CircuitBreakerWrapper
	bulkhead *patterns.Bulkhead
	baseURL  string
	apiKey   string
	timeout  time.Duration
	creds    Credentials
}

// NewClient builds a client for cfg. creds may be nil when admin calls are never made.
func NewClient(cfg Config, creds Credentials) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = patterns.DefaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	if cfg.Circuit.IsSuccessful == nil {
		// 4xx answers are the caller's fault and must not open the circuit
		cfg.Circuit.IsSuccessful = func(err error) bool {
			return err == nil || IsClientError(err)
		}
	}

	return &Client{
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetRetryCount(0). // No automatic retries; failures surface to the user
			SetHeader("Accept", "application/json"),
		circuit:  patterns.NewCircuitBreaker("DeliveryAPI", serviceName, cfg.Circuit),
		bulkhead: patterns.NewBulkhead(cfg.MaxConcurrent, time.Second, "delivery-api", serviceName),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		creds:    creds,
	}
}

// CircuitState returns the backend circuit state name
func (c *Client) CircuitState() string {
	return c.circuit.GetState()
}

type requestFunc func(r *resty.Request) (*resty.Response, error)

// do runs one backend call with bulkhead, circuit breaker, timeout and metrics
func (c *Client) do(ctx context.Context, operation string, send requestFunc) ([]byte, error) {
	ctx, cancel := patterns.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body []byte
	err := c.bulkhead.Execute(func() error {
		_, cbErr := c.circuit.Execute(func() (interface{}, error) {
			start := time.Now()
			resp, httpErr := send(c.http.R().SetContext(ctx))
			if httpErr != nil {
				metrics.ObserveBackend(operation, 0, start)
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}
			metrics.ObserveBackend(operation, resp.StatusCode(), start)

			if !resp.IsSuccess() {
				return nil, newStatusError(operation, resp.StatusCode(), resp.Body())
			}

			body = resp.Body()
			return nil, nil
		})
		return cbErr
	})
	if err != nil {
		log.WithFields(log.Fields{
			"operation": operation,
			"error":     err.Error(),
		}).Warn("Delivery backend call failed")
		return nil, err
	}

	return body, nil
}

func (c *Client) adminKey() (string, error) {
	if c.creds == nil {
		return "", ErrMissingCredential
	}
	key := c.creds.AdminKey()
	if key == "" {
		return "", ErrMissingCredential
	}
	return key, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func decodeJSON(operation string, body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w: %v", operation, models.ErrDecode, err)
	}
	return nil
}

// ListRestaurants calls GET /restaurants
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	body, err := c.do(ctx, "list_restaurants", func(r *resty.Request) (*resty.Response, error) {
		return r.Get(c.url("/restaurants"))
	})
	if err != nil {
		return nil, err
	}

	var restaurants []models.Restaurant
	if err := decodeJSON("list_restaurants", body, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetRestaurant calls GET /restaurants/{id}
func (c *Client) GetRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	body, err := c.do(ctx, "get_restaurant", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", id).Get(c.url("/restaurants/{id}"))
	})
	if err != nil {
		return models.Restaurant{}, err
	}

	var restaurant models.Restaurant
	if err := decodeJSON("get_restaurant", body, &restaurant); err != nil {
		return models.Restaurant{}, err
	}
	return restaurant, nil
}

// DeleteRestaurant calls DELETE /restaurants/{id} with the admin key
func (c *Client) DeleteRestaurant(ctx context.Context, id string) error {
	key, err := c.adminKey()
	if err != nil {
		return err
	}

	_, err = c.do(ctx, "delete_restaurant", func(r *resty.Request) (*resty.Response, error) {
		return r.SetAuthToken(key).SetPathParam("id", id).Delete(c.url("/restaurants/{id}"))
	})
	return err
}

// ListProducts calls GET /products, filtered by restaurant when restaurantID is set
func (c *Client) ListProducts(ctx context.Context, restaurantID string) ([]models.Product, error) {
	body, err := c.do(ctx, "list_products", func(r *resty.Request) (*resty.Response, error) {
		if restaurantID != "" {
			r.SetQueryParam("restaurantId", restaurantID)
		}
		return r.Get(c.url("/products"))
	})
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := decodeJSON("list_products", body, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct calls POST /products with the admin key
func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	key, err := c.adminKey()
	if err != nil {
		return models.Product{}, err
	}

	body, err := c.do(ctx, "create_product", func(r *resty.Request) (*resty.Response, error) {
		return r.SetAuthToken(key).
			SetHeader("Content-Type", "application/json").
			SetBody(in).
			Post(c.url("/products"))
	})
	if err != nil {
		return models.Product{}, err
	}

	var product models.Product
	if err := decodeJSON("create_product", body, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// UpdateProduct calls PUT /products/{id} with the admin key
func (c *Client) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (models.Product, error) {
	key, err := c.adminKey()
	if err != nil {
		return models.Product{}, err
	}

	body, err := c.do(ctx, "update_product", func(r *resty.Request) (*resty.Response, error) {
		return r.SetAuthToken(key).
			SetHeader("Content-Type", "application/json").
			SetPathParam("id", id).
			SetBody(in).
			Put(c.url("/products/{id}"))
	})
	if err != nil {
		return models.Product{}, err
	}

	var product models.Product
	if err := decodeJSON("update_product", body, &product); err != nil {
		return models.Product{}, err
	}
	if product.ID == "" {
		product.ID = id
	}
	return product, nil
}

// DeleteProduct calls DELETE /products/{id} with the admin key
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	key, err := c.adminKey()
	if err != nil {
		return err
	}

	_, err = c.do(ctx, "delete_product", func(r *resty.Request) (*resty.Response, error) {
		return r.SetAuthToken(key).SetPathParam("id", id).Delete(c.url("/products/{id}"))
	})
	return err
}

func (c *Client) orderRequest(r *resty.Request) *resty.Request {
	if c.apiKey != "" {
		r.SetAuthToken(c.apiKey)
	}
	return r
}

// ListOrders calls GET /orders
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	body, err := c.do(ctx, "list_orders", func(r *resty.Request) (*resty.Response, error) {
		return c.orderRequest(r).Get(c.url("/orders"))
	})
	if err != nil {
		return nil, err
	}

	orders, err := models.DecodeOrders(body)
	if err != nil {
		return nil, fmt.Errorf("list_orders: %w", err)
	}
	return orders, nil
}

// GetOrder calls GET /orders/{id}
func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	body, err := c.do(ctx, "get_order", func(r *resty.Request) (*resty.Response, error) {
		return c.orderRequest(r).SetPathParam("id", id).Get(c.url("/orders/{id}"))
	})
	if err != nil {
		return models.Order{}, err
	}

	order, err := models.DecodeOrder(body)
	if err != nil {
		return models.Order{}, fmt.Errorf("get_order: %w", err)
	}
	return order, nil
}

// CreateOrder calls POST /orders
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) error {
	_, err := c.do(ctx, "create_order", func(r *resty.Request) (*resty.Response, error) {
		return c.orderRequest(r).
			SetHeader("Content-Type", "application/json").
			SetBody(req).
			Post(c.url("/orders"))
	})
	return err
}

// UpdateOrderStatus calls PUT /orders/{id} with the new status
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	_, err := c.do(ctx, "update_order_status", func(r *resty.Request) (*resty.Response, error) {
		return c.orderRequest(r).
			SetHeader("Content-Type", "application/json").
			SetPathParam("id", id).
			SetBody(models.UpdateOrderStatusRequest{Status: status}).
			Put(c.url("/orders/{id}"))
	})
	return err
}

// HealthStatus reports whether the backend answers GET /restaurants within a short timeout
func (c *Client) HealthStatus(ctx context.Context) (bool, int) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := c.http.R().SetContext(ctx).Head(c.url("/restaurants"))
	if err != nil {
		return false, 0
	}
	return resp.StatusCode() < http.StatusInternalServerError, resp.StatusCode()
}
