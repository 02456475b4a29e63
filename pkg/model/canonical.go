package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical event envelope.
// All messages published to or consumed from NATS must follow this format.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	TraderID      string          `json:"trader_id"`
	StrategyID    string          `json:"strategy_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
	Context       Context         `json:"context,omitempty"`
}

type Context struct {
	Instrument    string `json:"instrument,omitempty"`
	Side          string `json:"side,omitempty"`
	ClientOrderID string `json:"client_order_id,omitempty"`
	VenueOrderID  string `json:"venue_order_id,omitempty"`
}

// OrderStateEvent is a flattened notification of an order's state after an
// event has been applied, suitable for downstream consumers that do not
// track the full aggregate.
type OrderStateEvent struct {
	TraderID      string    `json:"trader_id"`
	StrategyID    string    `json:"strategy_id"`
	InstrumentID  string    `json:"instrument_id"`
	ClientOrderID string    `json:"client_order_id"`
	VenueOrderID  string    `json:"venue_order_id,omitempty"`
	EventType     string    `json:"event_type"`
	Status        string    `json:"status"`
	FilledQty     string    `json:"filled_qty"`
	LeavesQty     string    `json:"leaves_qty"`
	AvgPx         *float64  `json:"avg_px,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
