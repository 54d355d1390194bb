package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDecode is returned when an order payload is not valid JSON or has the wrong shape
var ErrDecode = errors.New("malformed order payload")

type rawOrder struct {
	ID         json.RawMessage `json:"id"`
	Status     *string         `json:"status"`
	Date       *string         `json:"date"`
	Total      json.RawMessage `json:"total"`
	Restaurant *rawRestaurant  `json:"restaurant"`
	Items      []rawOrderItem  `json:"items"`
}

type rawRestaurant struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

type rawOrderItem struct {
	Name     *string         `json:"name"`
	Quantity json.RawMessage `json:"quantity"`
}

type rawOrderList struct {
	Orders []rawOrder `json:"orders"`
}

// DecodeOrders decodes GET /orders. Both a bare array and {"orders": [...]} are accepted.
// Missing fields are replaced by safe defaults; see DecodeOrder.
func DecodeOrders(data []byte) ([]Order, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDecode)
	}

	var raws []rawOrder
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	case '{':
		var list rawOrderList
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		raws = list.Orders
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrDecode)
	}

	orders := make([]Order, 0, len(raws))
	for _, raw := range raws {
		orders = append(orders, raw.toOrder())
	}
	return orders, nil
}

// DecodeOrder decodes a single order record. A missing total becomes 0, a missing
// restaurant becomes the placeholder, a missing status becomes OrderStatusUnknown.
func DecodeOrder(data []byte) (Order, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Order{}, fmt.Errorf("%w: expected object", ErrDecode)
	}
	var raw rawOrder
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return raw.toOrder(), nil
}

func (r rawOrder) toOrder() Order {
	order := Order{
		ID:     decodeID(r.ID),
		Status: OrderStatusUnknown,
		Restaurant: OrderRestaurant{
			Name:  PlaceholderRestaurantName,
			Image: PlaceholderImage,
		},
		Items: make([]OrderItem, 0, len(r.Items)),
	}

	if r.Status != nil && strings.TrimSpace(*r.Status) != "" {
		order.Status = OrderStatus(strings.ToLower(strings.TrimSpace(*r.Status)))
	}
	if r.Date != nil {
		order.Date = *r.Date
	}
	if total, ok := decodeNumber(r.Total); ok {
		order.Total = total
	}
	if r.Restaurant != nil {
		if r.Restaurant.Name != nil && *r.Restaurant.Name != "" {
			order.Restaurant.Name = *r.Restaurant.Name
		}
		if r.Restaurant.Image != nil && *r.Restaurant.Image != "" {
			order.Restaurant.Image = *r.Restaurant.Image
		}
	}
	for _, item := range r.Items {
		decoded := OrderItem{}
		if item.Name != nil {
			decoded.Name = *item.Name
		}
		if qty, ok := decodeNumber(item.Quantity); ok {
			decoded.Quantity = int(qty)
		}
		order.Items = append(order.Items, decoded)
	}

	return order
}

// decodeID accepts both "42" and 42
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// decodeNumber accepts a JSON number or a numeric string
func decodeNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
