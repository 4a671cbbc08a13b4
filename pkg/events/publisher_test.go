package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventEnvelope(t *testing.T) {
	e := NewEvent("SaleCompleted", map[string]string{"id": "TRX-123456"})

	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, "SaleCompleted", e.EventType)
	assert.False(t, e.Timestamp.IsZero())

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event_type":"SaleCompleted"`)
	assert.Contains(t, string(raw), `"payload":{"id":"TRX-123456"}`)
}

func TestNewWithoutBrokersIsNoop(t *testing.T) {
	p := New(nil, "primake.sales")
	_, ok := p.(noopPublisher)
	require.True(t, ok)

	assert.NoError(t, p.Publish(context.Background(), "k", NewEvent("x", nil)))
	assert.NoError(t, p.Close())
}

func TestNewWithBrokersIsKafka(t *testing.T) {
	p := New([]string{"localhost:9092"}, "primake.sales")
	kp, ok := p.(*kafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, "primake.sales", kp.writer.Topic)
}
