package models

import (
	"strconv"
	"strings"
)

// DefaultProductImage is used when an admin saves a product without an image
const DefaultProductImage = "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg?auto=compress&cs=tinysrgb&w=300"

// Restaurant represents a restaurant summary or detail record
type Restaurant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Rating       float64   `json:"rating"`
	DeliveryTime string    `json:"deliveryTime"`
	Category     string    `json:"category"`
	Promotion    bool      `json:"promotion,omitempty"`
	Products     []Product `json:"products,omitempty"`
}

// DeliveryMinutes returns the lower bound of a window such as "25-35 min"
func (r Restaurant) DeliveryMinutes() (int, bool) {
	s := strings.TrimSpace(r.DeliveryTime)
	if s == "" {
		return 0, false
	}
	end := strings.IndexFunc(s, func(c rune) bool { return c < '0' || c > '9' })
	if end == 0 {
		return 0, false
	}
	if end > 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Product represents a product record served by the backend
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	RestaurantID string  `json:"restaurantId"`
	Rating       float64 `json:"rating,omitempty"`
	Stock        *int    `json:"estoque,omitempty"`
}

// ProductInput is the admin create/update body
type ProductInput struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Image        string  `json:"image"`
	Category     string  `json:"category" binding:"required"`
	RestaurantID string  `json:"restaurantId"`
	Stock        *int    `json:"estoque,omitempty" binding:"omitempty,gte=0"`
}

// WithDefaults fills the image placeholder
func (p ProductInput) WithDefaults() ProductInput {
	if strings.TrimSpace(p.Image) == "" {
		p.Image = DefaultProductImage
	}
	return p
}
