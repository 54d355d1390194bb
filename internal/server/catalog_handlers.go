package server

import (
	"net/http"

	"github.com/ashendes/delivery-client/internal/catalog"
	"github.com/ashendes/delivery-client/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *handler) listRestaurants(c *gin.Context) {
	restaurants, err := h.Catalog.Restaurants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (h *handler) getRestaurant(c *gin.Context) {
	restaurant, err := h.Catalog.Restaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *handler) deleteRestaurant(c *gin.Context) {
	if err := h.Catalog.DeleteRestaurant(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listProducts(c *gin.Context) {
	var (
		products []models.Product
		err      error
	)
	if restaurantID, ok := c.GetQuery("restaurantId"); ok {
		products, err = h.Catalog.Products(c.Request.Context(), restaurantID)
	} else {
		products, err = h.Catalog.AllProducts(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handler) searchProducts(c *gin.Context) {
	products, err := h.Catalog.Search(
		c.Request.Context(),
		c.Query("q"),
		c.DefaultQuery("category", catalog.CategoryAll),
		catalog.ParseSortOrder(c.Query("sort")),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handler) createProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	product, err := h.Catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *handler) updateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	product, err := h.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handler) deleteProduct(c *gin.Context) {
	if err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id"), c.Query("restaurantId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
