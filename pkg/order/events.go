package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rterbush/nautilus-trader/pkg/identifiers"
)

// Event is a single order lifecycle event. Events are produced externally
// (execution gateway, risk engine, emulator), are immutable once constructed,
// and are already validated when they reach the aggregate.
type Event interface {
	Type() EventType
	ID() uuid.UUID
	OrderID() identifiers.ClientOrderID
	Timestamp() time.Time
}

// Meta carries the fields every order event shares.
type Meta struct {
	EventID       uuid.UUID                 `json:"event_id"`
	TraderID      identifiers.TraderID      `json:"trader_id"`
	StrategyID    identifiers.StrategyID    `json:"strategy_id"`
	InstrumentID  identifiers.InstrumentID  `json:"instrument_id"`
	ClientOrderID identifiers.ClientOrderID `json:"client_order_id"`
	TsEvent       time.Time                 `json:"ts_event"`
}

func (m Meta) ID() uuid.UUID                      { return m.EventID }
func (m Meta) OrderID() identifiers.ClientOrderID { return m.ClientOrderID }
func (m Meta) Timestamp() time.Time               { return m.TsEvent }

// Initialized is the only event an Order can be created from. It carries the
// full set of order parameters; optional fields are pointers or zero-valued
// enums.
type Initialized struct {
	Meta
	Side               Side                        `json:"side"`
	OrderType          Type                        `json:"order_type"`
	Quantity           decimal.Decimal             `json:"quantity"`
	Price              *decimal.Decimal            `json:"price,omitempty"`
	TriggerPrice       *decimal.Decimal            `json:"trigger_price,omitempty"`
	TriggerType        TriggerType                 `json:"trigger_type,omitempty"`
	TimeInForce        TimeInForce                 `json:"time_in_force"`
	ExpireTime         *time.Time                  `json:"expire_time,omitempty"`
	PostOnly           bool                        `json:"post_only,omitempty"`
	ReduceOnly         bool                        `json:"reduce_only,omitempty"`
	QuoteQuantity      bool                        `json:"quote_quantity,omitempty"`
	DisplayQty         *decimal.Decimal            `json:"display_qty,omitempty"`
	LimitOffset        *decimal.Decimal            `json:"limit_offset,omitempty"`
	TrailingOffset     *decimal.Decimal            `json:"trailing_offset,omitempty"`
	TrailingOffsetType TriggerType                 `json:"trailing_offset_type,omitempty"`
	EmulationTrigger   TriggerType                 `json:"emulation_trigger,omitempty"`
	ContingencyType    ContingencyType             `json:"contingency_type,omitempty"`
	OrderListID        *identifiers.OrderListID    `json:"order_list_id,omitempty"`
	LinkedOrderIDs     []identifiers.ClientOrderID `json:"linked_order_ids,omitempty"`
	ParentOrderID      *identifiers.ClientOrderID  `json:"parent_order_id,omitempty"`
	Tags               string                      `json:"tags,omitempty"`
}

func (Initialized) Type() EventType { return EventInitialized }

// Denied means the risk layer refused the order before submission.
type Denied struct {
	Meta
	Reason string `json:"reason"`
}

func (Denied) Type() EventType { return EventDenied }

// Submitted means the order was sent to the venue.
type Submitted struct {
	Meta
	AccountID identifiers.AccountID `json:"account_id"`
}

func (Submitted) Type() EventType { return EventSubmitted }

// Rejected means the venue refused the order.
type Rejected struct {
	Meta
	AccountID *identifiers.AccountID `json:"account_id,omitempty"`
	Reason    string                 `json:"reason"`
}

func (Rejected) Type() EventType { return EventRejected }

// Accepted means the venue acknowledged the order as working.
type Accepted struct {
	Meta
	VenueOrderID identifiers.VenueOrderID `json:"venue_order_id"`
	AccountID    *identifiers.AccountID   `json:"account_id,omitempty"`
}

func (Accepted) Type() EventType { return EventAccepted }

// PendingUpdate means a modify request is in flight at the venue.
type PendingUpdate struct {
	Meta
}

func (PendingUpdate) Type() EventType { return EventPendingUpdate }

// PendingCancel means a cancel request is in flight at the venue.
type PendingCancel struct {
	Meta
}

func (PendingCancel) Type() EventType { return EventPendingCancel }

// ModifyRejected means the venue refused a pending modify request; the order
// reverts to the status it held before the request.
type ModifyRejected struct {
	Meta
	Reason string `json:"reason"`
}

func (ModifyRejected) Type() EventType { return EventModifyRejected }

// CancelRejected means the venue refused a pending cancel request; the order
// reverts to the status it held before the request.
type CancelRejected struct {
	Meta
	Reason string `json:"reason"`
}

func (CancelRejected) Type() EventType { return EventCancelRejected }

// Updated means the venue acknowledged a modification of quantity and/or
// prices, possibly under a new venue order id.
type Updated struct {
	Meta
	Quantity     decimal.Decimal           `json:"quantity"`
	Price        *decimal.Decimal          `json:"price,omitempty"`
	TriggerPrice *decimal.Decimal          `json:"trigger_price,omitempty"`
	VenueOrderID *identifiers.VenueOrderID `json:"venue_order_id,omitempty"`
}

func (Updated) Type() EventType { return EventUpdated }

// Triggered means a conditional order's trigger condition was met.
type Triggered struct {
	Meta
	Price *decimal.Decimal `json:"price,omitempty"`
}

func (Triggered) Type() EventType { return EventTriggered }

// Canceled means the order was removed from the venue.
type Canceled struct {
	Meta
	VenueOrderID *identifiers.VenueOrderID `json:"venue_order_id,omitempty"`
}

func (Canceled) Type() EventType { return EventCanceled }

// Expired means the order lapsed per its time in force.
type Expired struct {
	Meta
}

func (Expired) Type() EventType { return EventExpired }

// FillDetails carries the execution fields shared by partial and full fills.
type FillDetails struct {
	VenueOrderID  identifiers.VenueOrderID `json:"venue_order_id"`
	TradeID       identifiers.TradeID      `json:"trade_id"`
	PositionID    *identifiers.PositionID  `json:"position_id,omitempty"`
	LastQty       decimal.Decimal          `json:"last_qty"`
	LastPx        decimal.Decimal          `json:"last_px"`
	LiquiditySide LiquiditySide            `json:"liquidity_side"`
}

// PartiallyFilled means part of the order's quantity traded.
type PartiallyFilled struct {
	Meta
	FillDetails
}

func (PartiallyFilled) Type() EventType { return EventPartiallyFilled }

// Filled means the order's full quantity has now traded.
type Filled struct {
	Meta
	FillDetails
}

func (Filled) Type() EventType { return EventFilled }
