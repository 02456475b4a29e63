package consumer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/cache"
	"github.com/rterbush/nautilus-trader/pkg/identifiers"
	"github.com/rterbush/nautilus-trader/pkg/model"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

func envelope(t *testing.T, eventType string, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	env := model.Envelope{
		ID:        uuid.New(),
		Topic:     "evt.order.v1",
		EventType: eventType,
		Version:   "1.0.0",
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return raw
}

func initializedPayload(t *testing.T, clientOrderID string) map[string]any {
	t.Helper()
	return map[string]any{
		"event_id":        uuid.NewString(),
		"trader_id":       "TRADER-001",
		"strategy_id":     "EMACross-001",
		"instrument_id":   "BTCUSDT.BINANCE",
		"client_order_id": clientOrderID,
		"ts_event":        "2024-03-01T09:30:00Z",
		"side":            "BUY",
		"order_type":      "LIMIT",
		"quantity":        "100",
		"price":           "10.00",
		"time_in_force":   "GTC",
	}
}

func newTestConsumer(t *testing.T) (*Consumer, *cache.Cache) {
	t.Helper()
	c := cache.New(nil)
	return New(t.Context(), zap.NewNop(), nil, c, "evt.order.v1.>", "order-tracker"), c
}

func TestHandleMessage_AppliesEvent(t *testing.T) {
	consumer, c := newTestConsumer(t)

	consumer.handleMessage(&nats.Msg{
		Subject: "evt.order.v1.test",
		Data:    envelope(t, "INITIALIZED", initializedPayload(t, "O-1")),
	})

	id, err := identifiers.NewClientOrderID("O-1")
	require.NoError(t, err)
	snap, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, order.StatusInitialized, snap.Status)
}

func TestHandleMessage_SequenceAdvancesOrder(t *testing.T) {
	consumer, c := newTestConsumer(t)

	consumer.handleMessage(&nats.Msg{
		Subject: "evt.order.v1.test",
		Data:    envelope(t, "INITIALIZED", initializedPayload(t, "O-1")),
	})
	consumer.handleMessage(&nats.Msg{
		Subject: "evt.order.v1.test",
		Data: envelope(t, "ACCEPTED", map[string]any{
			"event_id":        uuid.NewString(),
			"trader_id":       "TRADER-001",
			"strategy_id":     "EMACross-001",
			"instrument_id":   "BTCUSDT.BINANCE",
			"client_order_id": "O-1",
			"ts_event":        "2024-03-01T09:30:01Z",
			"venue_order_id":  "V-1",
		}),
	})

	id, err := identifiers.NewClientOrderID("O-1")
	require.NoError(t, err)
	snap, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, order.StatusAccepted, snap.Status)
}

func TestHandleMessage_MalformedEnvelopeIgnored(t *testing.T) {
	consumer, c := newTestConsumer(t)

	consumer.handleMessage(&nats.Msg{Subject: "evt.order.v1.test", Data: []byte("{")})
	assert.Zero(t, c.Count())
}

func TestHandleMessage_UndecodableEventIgnored(t *testing.T) {
	consumer, c := newTestConsumer(t)

	consumer.handleMessage(&nats.Msg{
		Subject: "evt.order.v1.test",
		Data:    envelope(t, "AMENDED", map[string]any{}),
	})
	assert.Zero(t, c.Count())
}

func TestHandleMessage_InvalidTransitionDoesNotCorruptOrder(t *testing.T) {
	consumer, c := newTestConsumer(t)

	consumer.handleMessage(&nats.Msg{
		Subject: "evt.order.v1.test",
		Data:    envelope(t, "INITIALIZED", initializedPayload(t, "O-1")),
	})
	consumer.handleMessage(&nats.Msg{
		Subject: "evt.order.v1.test",
		Data: envelope(t, "PENDING_CANCEL", map[string]any{
			"event_id":        uuid.NewString(),
			"trader_id":       "TRADER-001",
			"strategy_id":     "EMACross-001",
			"instrument_id":   "BTCUSDT.BINANCE",
			"client_order_id": "O-1",
			"ts_event":        "2024-03-01T09:30:01Z",
		}),
	})

	id, err := identifiers.NewClientOrderID("O-1")
	require.NoError(t, err)
	snap, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, order.StatusInitialized, snap.Status)
}
