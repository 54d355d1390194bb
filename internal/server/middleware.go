package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/ashendes/delivery-client/internal/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// HeaderCorrelationID carries the request correlation id in both directions
const HeaderCorrelationID = "X-Correlation-Id"

const correlationKey = "correlation_id"

// CorrelationID reuses the caller's correlation id or assigns a new one
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Set(correlationKey, cid)
		c.Header(HeaderCorrelationID, cid)
		c.Next()
	}
}

// RequestLogger logs one structured line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"correlation_id": c.GetString(correlationKey),
			"method":         c.Request.Method,
			"path":           c.FullPath(),
			"status":         c.Writer.Status(),
			"duration_ms":    time.Since(start).Milliseconds(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("Request failed")
			return
		}
		entry.Debug("Request served")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderCorrelationID},
		ExposeHeaders: []string{"Content-Length", HeaderCorrelationID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// RequireAdminKey rejects requests whose bearer token is not the logged-in admin key
func RequireAdminKey(session *auth.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || session == nil || !session.Authorize(strings.TrimSpace(token)) {
			log.WithFields(log.Fields{
				"correlation_id": c.GetString(correlationKey),
				"path":           c.FullPath(),
			}).Warn("Rejected admin request")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":          "admin bearer token required",
				"correlation_id": c.GetString(correlationKey),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
