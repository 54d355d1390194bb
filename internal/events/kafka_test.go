package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ashendes/delivery-client/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaPublisher_PublishOrderEvent(t *testing.T) {
	writer := &mockWriter{}
	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(1).([]kafka.Message)
		}).
		Return(nil).Once()

	publisher := NewKafkaPublisher(writer)
	event := models.OrderEvent{
		Type:       models.OrderEventSubmitted,
		OrderID:    "order-1",
		Status:     models.OrderStatusPending,
		Total:      32.9,
		Restaurant: "Pizza Suprema",
		Timestamp:  time.Date(2024, 12, 15, 14, 30, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))

	require.Len(t, written, 1)
	assert.Equal(t, "order-1", string(written[0].Key))
	var decoded models.OrderEvent
	require.NoError(t, json.Unmarshal(written[0].Value, &decoded))
	assert.Equal(t, event, decoded)
	writer.AssertExpectations(t)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &mockWriter{}
	brokerDown := errors.New("dial tcp: connection refused")
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(brokerDown).Once()

	err := NewKafkaPublisher(writer).PublishOrderEvent(context.Background(), models.OrderEvent{
		Type:    models.OrderEventCancelled,
		OrderID: "50",
	})

	assert.ErrorIs(t, err, brokerDown)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter("localhost:9092", "order-events")
	assert.Equal(t, "order-events", w.Topic)
	require.NotNil(t, w.Addr)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
