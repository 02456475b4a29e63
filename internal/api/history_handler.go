package api

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rterbush/nautilus-trader/internal/store"
	"github.com/rterbush/nautilus-trader/pkg/identifiers"
)

// EventJournal reads the persisted event history for an order.
type EventJournal interface {
	ListEvents(ctx context.Context, clientOrderID identifiers.ClientOrderID) ([]store.StoredEvent, error)
}

// HistoryHandler serves the persisted event journal.
type HistoryHandler struct {
	logger  *zap.Logger
	journal EventJournal
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(logger *zap.Logger, journal EventJournal) *HistoryHandler {
	return &HistoryHandler{
		logger:  logger,
		journal: journal,
	}
}

type historyEntry struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	TsEvent   string          `json:"ts_event"`
}

// GetOrderEvents returns the journal for one order in event-time order.
func (h *HistoryHandler) GetOrderEvents(c *fiber.Ctx) error {
	id, err := identifiers.NewClientOrderID(c.Params("clientOrderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	events, err := h.journal.ListEvents(c.Context(), id)
	if err != nil {
		h.logger.Error("api.list_events.failed",
			zap.String("client_order_id", id.String()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "journal unavailable"})
	}

	out := make([]historyEntry, 0, len(events))
	for _, e := range events {
		out = append(out, historyEntry{
			EventID:   e.EventID.String(),
			EventType: e.EventType,
			Payload:   e.Payload,
			TsEvent:   e.TsEvent.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"),
		})
	}
	return c.JSON(fiber.Map{
		"client_order_id": id.String(),
		"count":           len(out),
		"events":          out,
	})
}
