package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rterbush/nautilus-trader/internal/metrics"
	"github.com/rterbush/nautilus-trader/pkg/eventbus"
	"github.com/rterbush/nautilus-trader/pkg/identifiers"
	"github.com/rterbush/nautilus-trader/pkg/logger"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already exists")
)

// Cache holds the live order aggregates. Each order has its own lock so that
// events for different orders apply concurrently while events for the same
// order apply strictly one at a time.
type Cache struct {
	mu     sync.RWMutex
	orders map[identifiers.ClientOrderID]*entry
	bus    *eventbus.EventBus
}

type entry struct {
	mu    sync.Mutex
	order *order.Order
}

// New creates an empty cache. Applied events are published on bus after the
// aggregate has committed them; pass nil to disable publication.
func New(bus *eventbus.EventBus) *Cache {
	return &Cache{
		orders: make(map[identifiers.ClientOrderID]*entry),
		bus:    bus,
	}
}

// Apply routes an event to its order aggregate. An Initialized event creates
// the order; every other event type requires the order to already exist.
// On success the post-event snapshot is returned and published.
func (c *Cache) Apply(ev order.Event) (order.Snapshot, error) {
	start := time.Now()

	if init, ok := ev.(order.Initialized); ok {
		snap, err := c.add(init)
		c.record(ev, start, err)
		return snap, err
	}

	c.mu.RLock()
	e, ok := c.orders[ev.OrderID()]
	c.mu.RUnlock()
	if !ok {
		err := fmt.Errorf("%w: %s", ErrOrderNotFound, ev.OrderID())
		c.record(ev, start, err)
		return order.Snapshot{}, err
	}

	e.mu.Lock()
	prevStatus := e.order.Status()
	err := e.order.Apply(ev)
	var snap order.Snapshot
	if err == nil {
		snap = e.order.Snapshot()
	}
	e.mu.Unlock()

	c.record(ev, start, err)
	if err != nil {
		return order.Snapshot{}, err
	}

	metrics.OrdersByStatus.WithLabelValues(prevStatus.String()).Dec()
	metrics.OrdersByStatus.WithLabelValues(snap.Status.String()).Inc()
	c.publish(snap, ev)
	return snap, nil
}

func (c *Cache) add(init order.Initialized) (order.Snapshot, error) {
	c.mu.Lock()
	if _, exists := c.orders[init.ClientOrderID]; exists {
		c.mu.Unlock()
		return order.Snapshot{}, fmt.Errorf("%w: %s", ErrDuplicateOrder, init.ClientOrderID)
	}
	o := order.FromInitialized(init)
	c.orders[init.ClientOrderID] = &entry{order: o}
	c.mu.Unlock()

	snap := o.Snapshot()
	metrics.OrdersByStatus.WithLabelValues(snap.Status.String()).Inc()
	logger.S().Infow("order initialized",
		"client_order_id", init.ClientOrderID.String(),
		"instrument_id", init.InstrumentID.String(),
		"side", init.Side.String(),
		"order_type", init.OrderType.String(),
	)
	c.publish(snap, init)
	return snap, nil
}

func (c *Cache) record(ev order.Event, start time.Time, err error) {
	eventType := ev.Type().String()
	metrics.ObserveDuration(metrics.EventApplyDuration, start, eventType)

	switch {
	case err == nil:
		metrics.IncEventApplied(eventType, "ok")
		metrics.SetLastEvent("cache", ev.Timestamp())
	case errors.Is(err, order.ErrInvalidStateTransition):
		metrics.IncEventApplied(eventType, "invalid_transition")
		logger.S().Warnw("invalid state transition",
			"client_order_id", ev.OrderID().String(),
			"event_type", eventType,
			"error", err,
		)
	default:
		metrics.IncEventApplied(eventType, "error")
		logger.S().Errorw("failed to apply order event",
			"client_order_id", ev.OrderID().String(),
			"event_type", eventType,
			"error", err,
		)
	}
}

func (c *Cache) publish(snap order.Snapshot, ev order.Event) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.Notification{Snapshot: snap, Event: ev})
}

// Get returns a snapshot of the order with the given client order id.
func (c *Cache) Get(id identifiers.ClientOrderID) (order.Snapshot, bool) {
	c.mu.RLock()
	e, ok := c.orders[id]
	c.mu.RUnlock()
	if !ok {
		return order.Snapshot{}, false
	}

	e.mu.Lock()
	snap := e.order.Snapshot()
	e.mu.Unlock()
	return snap, true
}

// OpenOrders returns snapshots of all orders currently open at the venue.
func (c *Cache) OpenOrders() []order.Snapshot {
	return c.collect(func(o *order.Order) bool { return o.IsOpen() })
}

// Snapshots returns snapshots of every tracked order.
func (c *Cache) Snapshots() []order.Snapshot {
	return c.collect(func(o *order.Order) bool { return true })
}

func (c *Cache) collect(keep func(*order.Order) bool) []order.Snapshot {
	c.mu.RLock()
	entries := make([]*entry, 0, len(c.orders))
	for _, e := range c.orders {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	snaps := make([]order.Snapshot, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if keep(e.order) {
			snaps = append(snaps, e.order.Snapshot())
		}
		e.mu.Unlock()
	}
	return snaps
}

// Count returns the number of tracked orders.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}
