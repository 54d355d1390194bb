// Package server exposes the delivery client flows over HTTP for the UI.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ashendes/delivery-client/internal/auth"
	"github.com/ashendes/delivery-client/internal/cart"
	"github.com/ashendes/delivery-client/internal/catalog"
	"github.com/ashendes/delivery-client/internal/metrics"
	"github.com/ashendes/delivery-client/internal/notify"
	"github.com/ashendes/delivery-client/internal/orders"
	"github.com/ashendes/delivery-client/internal/receipt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend reports delivery backend reachability for /health
type Backend interface {
	HealthStatus(ctx context.Context) (bool, int)
	CircuitState() string
}

// Dependencies wires the flows into the router
type Dependencies struct {
	ServiceName      string
	CORSAllowOrigins []string

	Backend       Backend
	Catalog       *catalog.Service
	Cart          *cart.Store
	Submitter     *orders.Submitter
	Tracker       *orders.Tracker
	View          *orders.ViewState
	Notifications *notify.Queue
	Session       *auth.Session
	Receipts      receipt.Generator
}

type handler struct {
	Dependencies
}

// NewRouter builds the gin engine with every BFF route
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.ServiceName == "" {
		deps.ServiceName = "delivery-bff"
	}
	h := &handler{Dependencies: deps}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CorrelationID())
	router.Use(RequestLogger())
	router.Use(corsMiddleware(deps.CORSAllowOrigins))
	router.Use(metrics.PrometheusMiddleware(deps.ServiceName))

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Catalog
	router.GET("/restaurants", h.listRestaurants)
	router.GET("/restaurants/:id", h.getRestaurant)
	router.GET("/products", h.listProducts)
	router.GET("/products/search", h.searchProducts)

	admin := router.Group("/", RequireAdminKey(deps.Session))
	admin.DELETE("/restaurants/:id", h.deleteRestaurant)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)

	// Cart and checkout
	router.GET("/cart", h.getCart)
	router.POST("/cart/items", h.addCartItem)
	router.POST("/cart/replace", h.replaceCart)
	router.DELETE("/cart/items/:id", h.removeCartItem)
	router.DELETE("/cart", h.clearCart)
	router.POST("/checkout", h.checkout)

	// Orders
	router.GET("/orders", h.listOrders)
	router.POST("/orders/refresh", h.refreshOrders)
	router.GET("/orders/:id", h.getOrder)
	router.POST("/orders/:id/cancel", h.cancelOrder)
	router.GET("/orders/:id/qrcode", h.orderQRCode)

	// UI state
	router.GET("/notifications", h.drainNotifications)
	router.GET("/view", h.currentView)

	// Admin session
	router.POST("/admin/login", h.login)
	admin.POST("/admin/logout", h.logout)

	return router
}

func (h *handler) health(c *gin.Context) {
	body := gin.H{
		"service":   h.ServiceName,
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if h.Backend != nil {
		reachable, code := h.Backend.HealthStatus(c.Request.Context())
		body["backend"] = gin.H{
			"reachable":   reachable,
			"status_code": code,
			"circuit":     h.Backend.CircuitState(),
		}
		if !reachable {
			body["status"] = "degraded"
		}
	}
	c.JSON(http.StatusOK, body)
}

func (h *handler) currentView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"view": h.View.Current()})
}

func (h *handler) drainNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.Notifications.Drain())
}
