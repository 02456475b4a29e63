package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/pkg/identifiers"
	"github.com/rterbush/nautilus-trader/pkg/order"
)

// OrderReader is the view of the order cache the handlers need.
type OrderReader interface {
	Get(id identifiers.ClientOrderID) (order.Snapshot, bool)
	OpenOrders() []order.Snapshot
	Snapshots() []order.Snapshot
	Count() int
}

// OrderHandler handles HTTP API requests for order state queries.
type OrderHandler struct {
	logger *zap.Logger
	orders OrderReader
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(logger *zap.Logger, orders OrderReader) *OrderHandler {
	return &OrderHandler{
		logger: logger,
		orders: orders,
	}
}

// GetOrder returns the current snapshot for one order.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := identifiers.NewClientOrderID(c.Params("clientOrderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snap, ok := h.orders.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(snap)
}

// ListOrders returns snapshots; ?open=true restricts to orders open at the venue.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	var snaps []order.Snapshot
	if c.QueryBool("open") {
		snaps = h.orders.OpenOrders()
	} else {
		snaps = h.orders.Snapshots()
	}
	return c.JSON(fiber.Map{
		"count":  len(snaps),
		"orders": snaps,
	})
}
