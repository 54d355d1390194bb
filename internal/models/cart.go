package models

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, matching the backend's product records.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartItem is one product line in the not-yet-submitted order basket
type CartItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image"`
	Quantity       int             `json:"quantity"`
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName,omitempty"`
}

// Subtotal returns price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCartItem builds a quantity-1 entry for product
func NewCartItem(product Product, restaurantName string) CartItem {
	return CartItem{
		ID:             product.ID,
		Name:           product.Name,
		Price:          decimal.NewFromFloat(product.Price),
		Image:          product.Image,
		Quantity:       1,
		RestaurantID:   product.RestaurantID,
		RestaurantName: restaurantName,
	}
}
