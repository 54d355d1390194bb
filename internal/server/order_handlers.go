package server

import (
	"net/http"

	"github.com/ashendes/delivery-client/internal/cart"
	"github.com/ashendes/delivery-client/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cartResponse struct {
	Items        []models.CartItem `json:"items"`
	Total        decimal.Decimal   `json:"total"`
	RestaurantID string            `json:"restaurantId,omitempty"`
}

type addCartItemRequest struct {
	Product        models.Product `json:"product"`
	RestaurantName string         `json:"restaurantName"`
}

func (h *handler) cartSnapshot() cartResponse {
	items, total := h.Cart.Snapshot()
	resp := cartResponse{Items: items, Total: total}
	if len(items) > 0 {
		resp.RestaurantID = items[0].RestaurantID
	}
	return resp
}

func (h *handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartSnapshot())
}

// addCartItem answers 200 for both outcomes; needs_confirmation carries the pending replacement
func (h *handler) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Product.ID == "" || req.Product.RestaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id and restaurantId are required"})
		return
	}

	result := h.Cart.Add(req.Product, req.RestaurantName)
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"cart":   h.cartSnapshot(),
	})
}

func (h *handler) replaceCart(c *gin.Context) {
	var pending cart.Replacement
	if err := c.ShouldBindJSON(&pending); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if pending.Product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id is required"})
		return
	}

	h.Cart.ConfirmReplace(pending)
	c.JSON(http.StatusOK, h.cartSnapshot())
}

func (h *handler) removeCartItem(c *gin.Context) {
	h.Cart.Remove(c.Param("id"))
	c.JSON(http.StatusOK, h.cartSnapshot())
}

func (h *handler) clearCart(c *gin.Context) {
	h.Cart.Clear()
	c.JSON(http.StatusOK, h.cartSnapshot())
}

func (h *handler) checkout(c *gin.Context) {
	order, err := h.Submitter.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
		"view":  h.View.Current(),
	})
}

func (h *handler) listOrders(c *gin.Context) {
	partition, err := h.Tracker.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partition)
}

func (h *handler) refreshOrders(c *gin.Context) {
	partition, err := h.Tracker.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, partition)
}

func (h *handler) getOrder(c *gin.Context) {
	order, err := h.Tracker.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handler) cancelOrder(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.Tracker.Cancel(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"order_id": orderID,
		"status":   models.OrderStatusCancelled,
	})
}

func (h *handler) orderQRCode(c *gin.Context) {
	png, err := h.Receipts.Generate(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

type loginRequest struct {
	Key string `json:"key" binding:"required"`
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.Session.Login(req.Key); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

func (h *handler) logout(c *gin.Context) {
	if err := h.Session.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}
