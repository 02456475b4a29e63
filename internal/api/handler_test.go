package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/cache"
	"github.com/rterbush/nautilus-trader/pkg/identifiers"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// --- Test Helpers ---

func newTestApp(orders OrderReader) *fiber.App {
	app := fiber.New()
	handler := NewOrderHandler(zap.NewNop(), orders)
	v1 := app.Group("/api/v1")
	v1.Get("/orders", handler.ListOrders)
	v1.Get("/orders/:clientOrderId", handler.GetOrder)
	return app
}

func seedCache(t *testing.T, ids ...string) *cache.Cache {
	t.Helper()
	c := cache.New(nil)
	for _, clientOrderID := range ids {
		trader, err := identifiers.NewTraderID("TRADER-001")
		require.NoError(t, err)
		strategy, err := identifiers.NewStrategyID("EMACross-001")
		require.NoError(t, err)
		instrument, err := identifiers.NewInstrumentID("BTCUSDT.BINANCE")
		require.NoError(t, err)
		id, err := identifiers.NewClientOrderID(clientOrderID)
		require.NoError(t, err)
		price := decimal.RequireFromString("10.00")
		_, err = c.Apply(order.Initialized{
			Meta: order.Meta{
				EventID:       uuid.New(),
				TraderID:      trader,
				StrategyID:    strategy,
				InstrumentID:  instrument,
				ClientOrderID: id,
				TsEvent:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			},
			Side:        order.SideBuy,
			OrderType:   order.TypeLimit,
			Quantity:    decimal.RequireFromString("100"),
			Price:       &price,
			TimeInForce: order.TimeInForceGTC,
		})
		require.NoError(t, err)
	}
	return c
}

// --- GetOrder Tests ---

func TestGetOrder_Success(t *testing.T) {
	app := newTestApp(seedCache(t, "O-1"))

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/O-1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap order.Snapshot
	respBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(respBody, &snap))
	assert.Equal(t, "O-1", snap.ClientOrderID.String())
	assert.Equal(t, order.StatusInitialized, snap.Status)
}

func TestGetOrder_NotFound(t *testing.T) {
	app := newTestApp(seedCache(t))

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/O-404", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetOrder_InvalidID(t *testing.T) {
	app := newTestApp(seedCache(t))

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/%20%20", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// --- ListOrders Tests ---

func TestListOrders_All(t *testing.T) {
	app := newTestApp(seedCache(t, "O-1", "O-2", "O-3"))

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Count  int              `json:"count"`
		Orders []order.Snapshot `json:"orders"`
	}
	respBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.Equal(t, 3, result.Count)
	assert.Len(t, result.Orders, 3)
}

func TestListOrders_OpenOnly(t *testing.T) {
	c := seedCache(t, "O-1", "O-2")

	// Move O-2 to the venue so it shows up as open.
	venue, err := identifiers.NewVenueOrderID("V-2")
	require.NoError(t, err)
	trader, _ := identifiers.NewTraderID("TRADER-001")
	strategy, _ := identifiers.NewStrategyID("EMACross-001")
	instrument, _ := identifiers.NewInstrumentID("BTCUSDT.BINANCE")
	id, _ := identifiers.NewClientOrderID("O-2")
	_, err = c.Apply(order.Accepted{
		Meta: order.Meta{
			EventID:       uuid.New(),
			TraderID:      trader,
			StrategyID:    strategy,
			InstrumentID:  instrument,
			ClientOrderID: id,
			TsEvent:       time.Date(2024, 3, 1, 9, 31, 0, 0, time.UTC),
		},
		VenueOrderID: venue,
	})
	require.NoError(t, err)

	app := newTestApp(c)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders?open=true", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Count  int              `json:"count"`
		Orders []order.Snapshot `json:"orders"`
	}
	respBody, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(respBody, &result))
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "O-2", result.Orders[0].ClientOrderID.String())
}
