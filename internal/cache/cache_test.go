package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rterbush/nautilus-trader/pkg/eventbus"
	"github.com/rterbush/nautilus-trader/pkg/identifiers"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

func meta(t *testing.T, clientOrderID string) order.Meta {
	t.Helper()
	trader, err := identifiers.NewTraderID("TRADER-001")
	require.NoError(t, err)
	strategy, err := identifiers.NewStrategyID("EMACross-001")
	require.NoError(t, err)
	instrument, err := identifiers.NewInstrumentID("BTCUSDT.BINANCE")
	require.NoError(t, err)
	id, err := identifiers.NewClientOrderID(clientOrderID)
	require.NoError(t, err)
	return order.Meta{
		EventID:       uuid.New(),
		TraderID:      trader,
		StrategyID:    strategy,
		InstrumentID:  instrument,
		ClientOrderID: id,
		TsEvent:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func initialized(t *testing.T, clientOrderID string) order.Initialized {
	t.Helper()
	price := decimal.RequireFromString("10.00")
	return order.Initialized{
		Meta:        meta(t, clientOrderID),
		Side:        order.SideBuy,
		OrderType:   order.TypeLimit,
		Quantity:    decimal.RequireFromString("100"),
		Price:       &price,
		TimeInForce: order.TimeInForceGTC,
	}
}

func accepted(t *testing.T, clientOrderID, venueID string) order.Accepted {
	t.Helper()
	venue, err := identifiers.NewVenueOrderID(venueID)
	require.NoError(t, err)
	return order.Accepted{Meta: meta(t, clientOrderID), VenueOrderID: venue}
}

func TestCache_ApplyInitializedCreatesOrder(t *testing.T) {
	c := New(nil)

	snap, err := c.Apply(initialized(t, "O-1"))
	require.NoError(t, err)
	assert.Equal(t, order.StatusInitialized, snap.Status)
	assert.Equal(t, 1, c.Count())

	got, ok := c.Get(snap.ClientOrderID)
	require.True(t, ok)
	assert.Equal(t, snap, got)
}

func TestCache_DuplicateInitializedRejected(t *testing.T) {
	c := New(nil)

	_, err := c.Apply(initialized(t, "O-1"))
	require.NoError(t, err)

	_, err = c.Apply(initialized(t, "O-1"))
	assert.ErrorIs(t, err, ErrDuplicateOrder)
	assert.Equal(t, 1, c.Count())
}

func TestCache_ApplyUnknownOrder(t *testing.T) {
	c := New(nil)

	_, err := c.Apply(accepted(t, "O-404", "V-1"))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCache_ApplyAdvancesOrder(t *testing.T) {
	c := New(nil)

	_, err := c.Apply(initialized(t, "O-1"))
	require.NoError(t, err)

	snap, err := c.Apply(accepted(t, "O-1", "V-1"))
	require.NoError(t, err)
	assert.Equal(t, order.StatusAccepted, snap.Status)
	assert.True(t, snap.IsOpen)
}

func TestCache_InvalidTransitionSurfacesError(t *testing.T) {
	c := New(nil)

	_, err := c.Apply(initialized(t, "O-1"))
	require.NoError(t, err)

	_, err = c.Apply(order.PendingCancel{Meta: meta(t, "O-1")})
	assert.ErrorIs(t, err, order.ErrInvalidStateTransition)

	snap, ok := c.Get(initialized(t, "O-1").ClientOrderID)
	require.True(t, ok)
	assert.Equal(t, order.StatusInitialized, snap.Status)
}

func TestCache_PublishesAppliedEvents(t *testing.T) {
	bus := eventbus.New()
	var notifications []eventbus.Notification
	bus.SubscribeAll(func(n eventbus.Notification) {
		notifications = append(notifications, n)
	})

	c := New(bus)
	_, err := c.Apply(initialized(t, "O-1"))
	require.NoError(t, err)
	_, err = c.Apply(accepted(t, "O-1", "V-1"))
	require.NoError(t, err)

	require.Len(t, notifications, 2)
	assert.Equal(t, order.EventInitialized, notifications[0].Event.Type())
	assert.Equal(t, order.StatusInitialized, notifications[0].Snapshot.Status)
	assert.Equal(t, order.EventAccepted, notifications[1].Event.Type())
	assert.Equal(t, order.StatusAccepted, notifications[1].Snapshot.Status)
}

func TestCache_RejectedEventsAreNotPublished(t *testing.T) {
	bus := eventbus.New()
	var count int
	bus.SubscribeAll(func(n eventbus.Notification) { count++ })

	c := New(bus)
	_, err := c.Apply(initialized(t, "O-1"))
	require.NoError(t, err)

	_, err = c.Apply(order.PendingCancel{Meta: meta(t, "O-1")})
	require.Error(t, err)
	assert.Equal(t, 1, count)
}

func TestCache_OpenOrders(t *testing.T) {
	c := New(nil)

	_, err := c.Apply(initialized(t, "O-1"))
	require.NoError(t, err)
	_, err = c.Apply(initialized(t, "O-2"))
	require.NoError(t, err)
	_, err = c.Apply(accepted(t, "O-2", "V-2"))
	require.NoError(t, err)

	open := c.OpenOrders()
	require.Len(t, open, 1)
	assert.Equal(t, "O-2", open[0].ClientOrderID.String())

	assert.Len(t, c.Snapshots(), 2)
}

func TestCache_ConcurrentApplyAcrossOrders(t *testing.T) {
	c := New(nil)

	const n = 50
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "O-" + uuid.NewString()
		_, err := c.Apply(initialized(t, ids[i]))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := c.Apply(accepted(t, id, "V-"+id))
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Len(t, c.OpenOrders(), n)
}
