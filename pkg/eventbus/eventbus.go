package eventbus

import (
	"sync"

	"github.com/rterbush/nautilus-trader/pkg/order"
)

// Notification carries an applied event together with the order state that
// resulted from it.
type Notification struct {
	Snapshot order.Snapshot
	Event    order.Event
}

// Handler is a function that handles a notification
type Handler func(n Notification)

// EventBus provides in-process pub/sub keyed by event type
type EventBus struct {
	handlers map[order.EventType][]Handler
	all      []Handler
	mu       sync.RWMutex
}

// New creates a new EventBus
func New() *EventBus {
	return &EventBus{
		handlers: make(map[order.EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (e *EventBus) Subscribe(eventType order.EventType, handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handlers[eventType] = append(e.handlers[eventType], handler)
}

// SubscribeAll registers a handler for every event type
func (e *EventBus) SubscribeAll(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.all = append(e.all, handler)
}

// Publish delivers a notification synchronously to all subscribers.
// Synchronous delivery preserves per-order event ordering; handlers that need
// concurrency manage it themselves.
func (e *EventBus) Publish(n Notification) {
	e.mu.RLock()
	handlers := append([]Handler(nil), e.all...)
	handlers = append(handlers, e.handlers[n.Event.Type()]...)
	e.mu.RUnlock()

	for _, handler := range handlers {
		handler(n)
	}
}

// HasSubscribers returns true if there are subscribers for the event type
func (e *EventBus) HasSubscribers(eventType order.EventType) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.all) > 0 || len(e.handlers[eventType]) > 0
}

// SubscriberCount returns the number of subscribers for an event type
func (e *EventBus) SubscriberCount(eventType order.EventType) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.all) + len(e.handlers[eventType])
}
