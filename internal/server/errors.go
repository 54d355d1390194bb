package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/ashendes/delivery-client/internal/api"
	"github.com/ashendes/delivery-client/internal/auth"
	"github.com/ashendes/delivery-client/internal/catalog"
	"github.com/ashendes/delivery-client/internal/models"
	"github.com/ashendes/delivery-client/internal/orders"
	"github.com/ashendes/delivery-client/internal/patterns"
	"github.com/gin-gonic/gin"
)

// statusFor maps flow errors to the BFF response code
func statusFor(err error) int {
	var statusErr *api.StatusError
	switch {
	case errors.Is(err, catalog.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidKey),
		errors.Is(err, api.ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, orders.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrSubmissionInFlight),
		errors.Is(err, orders.ErrNotCancellable):
		return http.StatusConflict
	case errors.Is(err, patterns.ErrCircuitOpen),
		errors.Is(err, patterns.ErrBulkheadFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &statusErr):
		if statusErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.Is(err, models.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error":          err.Error(),
		"correlation_id": c.GetString(correlationKey),
	})
}
