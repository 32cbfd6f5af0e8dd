package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.IsType(t, Nop{}, New(nil, "orders"))

	p := New([]string{"localhost:9092"}, "orders")
	kp, ok := p.(*KafkaPublisher)
	if assert.True(t, ok) {
		assert.Equal(t, "orders", kp.writer.Topic)
	}
	assert.NoError(t, p.Close())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{Type: TypeOrderPlaced, OrderID: "ORD1"}))
}
