// Package config loads the BFF settings from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// DefaultCORSOrigins are the local dev servers of the mobile web client
const DefaultCORSOrigins = "http://localhost:8081,http://localhost:19006"

// Config holds the BFF settings
type Config struct {
	// Host is the bind address; set HOST=0.0.0.0 to listen on all interfaces
	Host string
	Port string

	// Delivery backend
	DeliveryAPIURL string
	DeliveryAPIKey string
	RequestTimeout time.Duration

	// Admin session
	AdminKey    string
	SessionFile string

	// Query cache and polling
	OrdersRefreshInterval time.Duration
	OrdersStaleTime       time.Duration
	OrdersActiveWindow    time.Duration
	CatalogStaleTime      time.Duration
	RedisAddr             string

	// Order events, disabled when KafkaBroker is empty
	KafkaBroker string
	KafkaTopic  string

	TrackingBaseURL  string
	CORSAllowOrigins []string
	LogLevel         log.Level
}

// Load reads an optional .env file and then the environment
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithField("error", err.Error()).Warn("Failed to read .env file")
	}

	return Config{
		Host: getEnv("HOST", "127.0.0.1"),
		Port: getEnv("PORT", "8080"),

		DeliveryAPIURL: getEnv("DELIVERY_API_URL", "http://localhost:3000"),
		DeliveryAPIKey: getEnv("DELIVERY_API_KEY", ""),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "10s"), 10*time.Second),

		AdminKey:    getEnv("ADMIN_KEY", ""),
		SessionFile: getEnv("SESSION_FILE", ".delivery-session"),

		OrdersRefreshInterval: parseDuration(getEnv("ORDERS_REFRESH_INTERVAL", "30s"), 30*time.Second),
		OrdersStaleTime:       parseDuration(getEnv("ORDERS_STALE_TIME", "2m"), 2*time.Minute),
		OrdersActiveWindow:    parseDuration(getEnv("ORDERS_ACTIVE_WINDOW", "5m"), 5*time.Minute),
		CatalogStaleTime:      parseDuration(getEnv("CATALOG_STALE_TIME", "5m"), 5*time.Minute),
		RedisAddr:             getEnv("REDIS_ADDR", ""),

		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "order-events"),

		TrackingBaseURL:  getEnv("TRACKING_BASE_URL", "http://localhost:8080"),
		CORSAllowOrigins: splitCSV(getEnv("CORS_ALLOW_ORIGINS", DefaultCORSOrigins)),
		LogLevel:         parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return splitCSV(DefaultCORSOrigins)
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseLevel(v string) log.Level {
	level, err := log.ParseLevel(v)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
