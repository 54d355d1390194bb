package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashendes/delivery-client/internal/api"
	"github.com/ashendes/delivery-client/internal/auth"
	"github.com/ashendes/delivery-client/internal/cache"
	"github.com/ashendes/delivery-client/internal/cart"
	"github.com/ashendes/delivery-client/internal/catalog"
	"github.com/ashendes/delivery-client/internal/config"
	"github.com/ashendes/delivery-client/internal/events"
	"github.com/ashendes/delivery-client/internal/notify"
	"github.com/ashendes/delivery-client/internal/orders"
	"github.com/ashendes/delivery-client/internal/receipt"
	"github.com/ashendes/delivery-client/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const serviceName = "delivery-bff"

func init() {
	// Initialize logger
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)
	if cfg.LogLevel < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := auth.NewSession(cfg.AdminKey, auth.FileStore{Path: cfg.SessionFile})
	if err := session.Restore(); err != nil {
		log.WithField("error", err.Error()).Warn("Failed to restore admin session")
	}
	if cfg.AdminKey == "" {
		log.Warn("ADMIN_KEY is not set, admin login is disabled")
	}

	client := api.NewClient(api.Config{
		BaseURL: cfg.DeliveryAPIURL,
		APIKey:  cfg.DeliveryAPIKey,
		Timeout: cfg.RequestTimeout,
	}, session)

	queryCache, closeCache := newQueryCache(ctx, cfg.RedisAddr)
	defer closeCache()

	var publisher orders.EventPublisher
	if cfg.KafkaBroker != "" {
		kafkaPublisher := events.NewKafkaPublisher(events.NewWriter(cfg.KafkaBroker, cfg.KafkaTopic))
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.WithField("error", err.Error()).Warn("Failed to close Kafka writer")
			}
		}()
		publisher = kafkaPublisher
	}

	queue := notify.NewQueue(notify.DefaultCapacity)
	view := orders.NewViewState()
	store := cart.NewStore()
	tracker := orders.NewTracker(client, queryCache, queue, publisher, orders.TrackerConfig{
		StaleTime:       cfg.OrdersStaleTime,
		RefreshInterval: cfg.OrdersRefreshInterval,
		ActiveWindow:    cfg.OrdersActiveWindow,
	})

	router := server.NewRouter(server.Dependencies{
		ServiceName:      serviceName,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Backend:          client,
		Catalog:          catalog.NewService(client, queryCache, session, queue, cfg.CatalogStaleTime),
		Cart:             store,
		Submitter:        orders.NewSubmitter(client, store, queryCache, view, queue, publisher),
		Tracker:          tracker,
		View:             view,
		Notifications:    queue,
		Session:          session,
		Receipts:         receipt.NewGenerator(cfg.TrackingBaseURL),
	})

	go tracker.Watch(ctx, nil)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithField("error", err.Error()).Error("Graceful shutdown failed")
		}
	}()

	log.WithFields(log.Fields{
		"host":        cfg.Host,
		"port":        cfg.Port,
		"backend_url": cfg.DeliveryAPIURL,
		"cache":       queryCache.Backend(),
		"events":      cfg.KafkaBroker != "",
	}).Info("Delivery BFF starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server: ", err)
	}
	log.Info("Delivery BFF stopped")
}

// newQueryCache uses Redis when configured and reachable, memory otherwise
func newQueryCache(ctx context.Context, addr string) (cache.QueryCache, func()) {
	if addr == "" {
		return cache.NewMemoryCache(), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithFields(log.Fields{
			"redis_addr": addr,
			"error":      err.Error(),
		}).Warn("Redis unavailable, falling back to in-memory cache")
		_ = client.Close()
		return cache.NewMemoryCache(), func() {}
	}

	return cache.NewRedisCache(client), func() {
		if err := client.Close(); err != nil {
			log.WithField("error", err.Error()).Warn("Failed to close Redis client")
		}
	}
}
