package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rterbush/nautilus-trader/pkg/order"
)

func notification(eventType order.EventType) Notification {
	var ev order.Event
	switch eventType {
	case order.EventAccepted:
		ev = order.Accepted{}
	case order.EventCanceled:
		ev = order.Canceled{}
	default:
		ev = order.Submitted{}
	}
	return Notification{Event: ev}
}

func TestEventBus_Subscribe_And_Publish(t *testing.T) {
	bus := New()

	var received Notification
	bus.Subscribe(order.EventAccepted, func(n Notification) {
		received = n
	})

	bus.Publish(notification(order.EventAccepted))

	assert.Equal(t, order.EventAccepted, received.Event.Type())
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := New()

	var count int
	handler := func(n Notification) { count++ }

	bus.Subscribe(order.EventAccepted, handler)
	bus.Subscribe(order.EventAccepted, handler)
	bus.Subscribe(order.EventAccepted, handler)

	bus.Publish(notification(order.EventAccepted))

	assert.Equal(t, 3, count)
}

func TestEventBus_DifferentEventTypes(t *testing.T) {
	bus := New()

	var receivedAccepted bool
	var receivedCanceled bool

	bus.Subscribe(order.EventAccepted, func(n Notification) {
		receivedAccepted = true
	})
	bus.Subscribe(order.EventCanceled, func(n Notification) {
		receivedCanceled = true
	})

	bus.Publish(notification(order.EventAccepted))
	assert.True(t, receivedAccepted)
	assert.False(t, receivedCanceled)

	bus.Publish(notification(order.EventCanceled))
	assert.True(t, receivedCanceled)
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := New()

	var types []order.EventType
	bus.SubscribeAll(func(n Notification) {
		types = append(types, n.Event.Type())
	})

	bus.Publish(notification(order.EventAccepted))
	bus.Publish(notification(order.EventCanceled))

	assert.Equal(t, []order.EventType{order.EventAccepted, order.EventCanceled}, types)
}

func TestEventBus_DeliveryIsOrdered(t *testing.T) {
	bus := New()

	var seen []string
	bus.SubscribeAll(func(n Notification) { seen = append(seen, "all") })
	bus.Subscribe(order.EventAccepted, func(n Notification) { seen = append(seen, "typed") })

	bus.Publish(notification(order.EventAccepted))

	// Catch-all subscribers run before type-specific ones.
	assert.Equal(t, []string{"all", "typed"}, seen)
}

func TestEventBus_NoSubscribers(t *testing.T) {
	bus := New()

	// Should not panic
	bus.Publish(notification(order.EventAccepted))
}

func TestEventBus_HasSubscribers(t *testing.T) {
	bus := New()

	assert.False(t, bus.HasSubscribers(order.EventAccepted))

	bus.Subscribe(order.EventAccepted, func(n Notification) {})

	assert.True(t, bus.HasSubscribers(order.EventAccepted))
	assert.False(t, bus.HasSubscribers(order.EventCanceled))

	bus.SubscribeAll(func(n Notification) {})
	assert.True(t, bus.HasSubscribers(order.EventCanceled))
}

func TestEventBus_SubscriberCount(t *testing.T) {
	bus := New()

	assert.Equal(t, 0, bus.SubscriberCount(order.EventAccepted))

	bus.Subscribe(order.EventAccepted, func(n Notification) {})
	assert.Equal(t, 1, bus.SubscriberCount(order.EventAccepted))

	bus.Subscribe(order.EventAccepted, func(n Notification) {})
	assert.Equal(t, 2, bus.SubscriberCount(order.EventAccepted))
}
