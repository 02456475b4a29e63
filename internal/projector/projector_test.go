package projector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/store"
	"github.com/rterbush/nautilus-trader/pkg/eventbus"
	"github.com/rterbush/nautilus-trader/pkg/identifiers"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// --- Mock Store ---

type recordedEvent struct {
	eventID   uuid.UUID
	eventType string
	payload   []byte
}

type mockStore struct {
	mu        sync.Mutex
	events    []recordedEvent
	snapshots []order.Snapshot
	failWith  error
}

func (m *mockStore) RecordEvent(ctx context.Context, snap order.Snapshot, eventID uuid.UUID, eventType string, tsEvent time.Time, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.events = append(m.events, recordedEvent{eventID: eventID, eventType: eventType, payload: payload})
	return nil
}

func (m *mockStore) UpsertSnapshot(ctx context.Context, snap order.Snapshot, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *mockStore) GetSnapshot(ctx context.Context, clientOrderID identifiers.ClientOrderID) (*order.Snapshot, error) {
	return nil, nil
}

func (m *mockStore) ListEvents(ctx context.Context, clientOrderID identifiers.ClientOrderID) ([]store.StoredEvent, error) {
	return nil, nil
}

func (m *mockStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (m *mockStore) GetJSON(ctx context.Context, key string, dest any) error { return nil }
func (m *mockStore) HealthCheck(ctx context.Context) error                   { return nil }
func (m *mockStore) Close() error                                            { return nil }

// --- Helpers ---

func notification(t *testing.T) eventbus.Notification {
	t.Helper()
	trader, err := identifiers.NewTraderID("TRADER-001")
	require.NoError(t, err)
	strategy, err := identifiers.NewStrategyID("EMACross-001")
	require.NoError(t, err)
	instrument, err := identifiers.NewInstrumentID("BTCUSDT.BINANCE")
	require.NoError(t, err)
	id, err := identifiers.NewClientOrderID("O-1")
	require.NoError(t, err)
	venue, err := identifiers.NewVenueOrderID("V-1")
	require.NoError(t, err)

	ev := order.Accepted{
		Meta: order.Meta{
			EventID:       uuid.New(),
			TraderID:      trader,
			StrategyID:    strategy,
			InstrumentID:  instrument,
			ClientOrderID: id,
			TsEvent:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		VenueOrderID: venue,
	}
	return eventbus.Notification{
		Snapshot: order.Snapshot{
			TraderID:      trader,
			StrategyID:    strategy,
			InstrumentID:  instrument,
			ClientOrderID: id,
			Status:        order.StatusAccepted,
			Quantity:      decimal.RequireFromString("100"),
			LeavesQty:     decimal.RequireFromString("100"),
		},
		Event: ev,
	}
}

func TestProjector_PersistsJournalAndSnapshot(t *testing.T) {
	st := &mockStore{}
	bus := eventbus.New()
	proj := New(context.Background(), zap.NewNop(), st, nil, time.Hour)
	proj.Attach(bus)

	n := notification(t)
	bus.Publish(n)

	require.Len(t, st.events, 1)
	assert.Equal(t, n.Event.ID(), st.events[0].eventID)
	assert.Equal(t, "ACCEPTED", st.events[0].eventType)
	assert.NotEmpty(t, st.events[0].payload)

	require.Len(t, st.snapshots, 1)
	assert.Equal(t, order.StatusAccepted, st.snapshots[0].Status)
}

func TestProjector_StoreFailureDoesNotPanic(t *testing.T) {
	st := &mockStore{failWith: assert.AnError}
	bus := eventbus.New()
	proj := New(context.Background(), zap.NewNop(), st, nil, time.Hour)
	proj.Attach(bus)

	bus.Publish(notification(t))
	assert.Empty(t, st.events)
	assert.Empty(t, st.snapshots)
}

func TestProjector_NilStoreSkipsPersistence(t *testing.T) {
	bus := eventbus.New()
	proj := New(context.Background(), zap.NewNop(), nil, nil, time.Hour)
	proj.Attach(bus)

	// Must not panic with both projections disabled.
	bus.Publish(notification(t))
}
