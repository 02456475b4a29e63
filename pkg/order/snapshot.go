package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rterbush/nautilus-trader/pkg/identifiers"
)

// Snapshot is an immutable point-in-time view of an Order, safe to hand
// across goroutines and to serialize. All slices are copies.
type Snapshot struct {
	TraderID      identifiers.TraderID      `json:"trader_id"`
	StrategyID    identifiers.StrategyID    `json:"strategy_id"`
	InstrumentID  identifiers.InstrumentID  `json:"instrument_id"`
	ClientOrderID identifiers.ClientOrderID `json:"client_order_id"`
	VenueOrderID  *identifiers.VenueOrderID `json:"venue_order_id,omitempty"`
	PositionID    *identifiers.PositionID   `json:"position_id,omitempty"`
	AccountID     *identifiers.AccountID    `json:"account_id,omitempty"`
	LastTradeID   *identifiers.TradeID      `json:"last_trade_id,omitempty"`

	Status        OrderStatus      `json:"status"`
	Side          Side             `json:"side"`
	OrderType     Type             `json:"order_type"`
	TimeInForce   TimeInForce      `json:"time_in_force"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	TriggerPrice  *decimal.Decimal `json:"trigger_price,omitempty"`
	FilledQty     decimal.Decimal  `json:"filled_qty"`
	LeavesQty     decimal.Decimal  `json:"leaves_qty"`
	AvgPx         *float64         `json:"avg_px,omitempty"`
	Slippage      *float64         `json:"slippage,omitempty"`
	LiquiditySide LiquiditySide    `json:"liquidity_side,omitempty"`

	PostOnly         bool                        `json:"post_only,omitempty"`
	ReduceOnly       bool                        `json:"reduce_only,omitempty"`
	QuoteQuantity    bool                        `json:"quote_quantity,omitempty"`
	EmulationTrigger TriggerType                 `json:"emulation_trigger,omitempty"`
	ContingencyType  ContingencyType             `json:"contingency_type,omitempty"`
	OrderListID      *identifiers.OrderListID    `json:"order_list_id,omitempty"`
	LinkedOrderIDs   []identifiers.ClientOrderID `json:"linked_order_ids,omitempty"`
	ParentOrderID    *identifiers.ClientOrderID  `json:"parent_order_id,omitempty"`
	Tags             string                      `json:"tags,omitempty"`

	VenueOrderIDs []identifiers.VenueOrderID `json:"venue_order_ids,omitempty"`
	TradeIDs      []identifiers.TradeID      `json:"trade_ids,omitempty"`
	EventCount    int                        `json:"event_count"`

	IsOpen     bool `json:"is_open"`
	IsClosed   bool `json:"is_closed"`
	IsInflight bool `json:"is_inflight"`

	InitID      uuid.UUID  `json:"init_id"`
	TsInit      time.Time  `json:"ts_init"`
	TsTriggered *time.Time `json:"ts_triggered,omitempty"`
	TsLast      time.Time  `json:"ts_last"`
}

// Snapshot captures the order's current state.
func (o *Order) Snapshot() Snapshot {
	s := Snapshot{
		TraderID:      o.traderID,
		StrategyID:    o.strategyID,
		InstrumentID:  o.instrumentID,
		ClientOrderID: o.clientOrderID,

		Status:        o.status,
		Side:          o.side,
		OrderType:     o.orderType,
		TimeInForce:   o.timeInForce,
		Quantity:      o.quantity,
		Price:         copyDecimal(o.price),
		TriggerPrice:  copyDecimal(o.triggerPrice),
		FilledQty:     o.filledQty,
		LeavesQty:     o.leavesQty,
		LiquiditySide: o.liquiditySide,

		PostOnly:         o.postOnly,
		ReduceOnly:       o.reduceOnly,
		QuoteQuantity:    o.quoteQuantity,
		EmulationTrigger: o.emulationTrigger,
		ContingencyType:  o.contingencyType,
		LinkedOrderIDs:   append([]identifiers.ClientOrderID(nil), o.linkedOrderIDs...),
		Tags:             o.tags,

		VenueOrderIDs: o.VenueOrderIDs(),
		TradeIDs:      o.TradeIDs(),
		EventCount:    len(o.events),

		IsOpen:     o.IsOpen(),
		IsClosed:   o.IsClosed(),
		IsInflight: o.IsInflight(),

		InitID:      o.initID,
		TsInit:      o.tsInit,
		TsTriggered: copyTime(o.tsTriggered),
		TsLast:      o.tsLast,
	}
	if o.venueOrderID != nil {
		id := *o.venueOrderID
		s.VenueOrderID = &id
	}
	if o.positionID != nil {
		id := *o.positionID
		s.PositionID = &id
	}
	if o.accountID != nil {
		id := *o.accountID
		s.AccountID = &id
	}
	if o.lastTradeID != nil {
		id := *o.lastTradeID
		s.LastTradeID = &id
	}
	if o.avgPx != nil {
		v := *o.avgPx
		s.AvgPx = &v
	}
	if o.slippage != nil {
		v := *o.slippage
		s.Slippage = &v
	}
	if o.orderListID != nil {
		id := *o.orderListID
		s.OrderListID = &id
	}
	if o.parentOrderID != nil {
		id := *o.parentOrderID
		s.ParentOrderID = &id
	}
	return s
}
