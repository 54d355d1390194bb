package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrders_FullRecord(t *testing.T) {
	body := `[{"id":"50","status":"confirmed","date":"15/12/2024 - 14:30","total":32.9,
		"restaurant":{"name":"Pizza Suprema","image":"https://img/pizza.jpg"},
		"items":[{"name":"Pizza","quantity":1}]}]`

	orders, err := DecodeOrders([]byte(body))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, Order{
		ID:         "50",
		Status:     OrderStatusConfirmed,
		Date:       "15/12/2024 - 14:30",
		Total:      32.9,
		Restaurant: OrderRestaurant{Name: "Pizza Suprema", Image: "https://img/pizza.jpg"},
		Items:      []OrderItem{{Name: "Pizza", Quantity: 1}},
	}, orders[0])
}

func TestDecodeOrders_MissingFieldsGetDefaults(t *testing.T) {
	orders, err := DecodeOrders([]byte(`[{"id":7}]`))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, "7", order.ID)
	assert.Equal(t, OrderStatusUnknown, order.Status)
	assert.Zero(t, order.Total)
	assert.Equal(t, PlaceholderRestaurantName, order.Restaurant.Name)
	assert.Equal(t, PlaceholderImage, order.Restaurant.Image)
	assert.NotNil(t, order.Items)
	assert.Empty(t, order.Items)
}

func TestDecodeOrders_PartialRestaurantAndStringTotal(t *testing.T) {
	body := `{"orders":[{"id":"1","status":"DELIVERED","total":"45.00","restaurant":{"name":"Pizza Hut"},
		"items":[{"name":"Calabresa","quantity":"2"},{"quantity":1}]}]}`

	orders, err := DecodeOrders([]byte(body))
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	assert.Equal(t, OrderStatusDelivered, order.Status)
	assert.Equal(t, 45.0, order.Total)
	assert.Equal(t, "Pizza Hut", order.Restaurant.Name)
	assert.Equal(t, PlaceholderImage, order.Restaurant.Image)
	assert.Equal(t, []OrderItem{{Name: "Calabresa", Quantity: 2}, {Name: "", Quantity: 1}}, order.Items)
}

func TestDecodeOrders_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "not json", body: "<html>bad gateway</html>"},
		{name: "scalar", body: `"orders"`},
		{name: "broken array", body: `[{"id":"1"`},
		{name: "wrong nested type", body: `[{"restaurant":"Pizza"}]`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := DecodeOrders([]byte(testCase.body))
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeOrder(t *testing.T) {
	order, err := DecodeOrder([]byte(`{"id":"51","status":"delivered","total":12.5}`))
	require.NoError(t, err)
	assert.Equal(t, "51", order.ID)
	assert.Equal(t, OrderStatusDelivered, order.Status)
	assert.Equal(t, 12.5, order.Total)

	_, err = DecodeOrder([]byte(`[]`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestOrderStatus_Classification(t *testing.T) {
	tests := []struct {
		status      OrderStatus
		active      bool
		terminal    bool
		cancellable bool
	}{
		{OrderStatusPending, true, false, true},
		{OrderStatusConfirmed, true, false, true},
		{OrderStatusPreparing, true, false, false},
		{OrderStatusDelivering, true, false, false},
		{OrderStatusDelivered, false, true, false},
		{OrderStatusCancelled, false, true, false},
		{OrderStatusUnknown, false, false, false},
		{OrderStatus("refunded"), false, false, false},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.status), func(t *testing.T) {
			assert.Equal(t, testCase.active, testCase.status.IsActive())
			assert.Equal(t, testCase.terminal, testCase.status.IsTerminal())
			assert.Equal(t, testCase.cancellable, testCase.status.Cancellable())
			assert.Equal(t, testCase.active || testCase.terminal, testCase.status.Known())
		})
	}
}

func TestRestaurant_DeliveryMinutes(t *testing.T) {
	tests := []struct {
		window  string
		minutes int
		ok      bool
	}{
		{"25-35 min", 25, true},
		{"15 min", 15, true},
		{"40", 40, true},
		{"", 0, false},
		{"soon", 0, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.window, func(t *testing.T) {
			minutes, ok := Restaurant{DeliveryTime: testCase.window}.DeliveryMinutes()
			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.minutes, minutes)
		})
	}
}
