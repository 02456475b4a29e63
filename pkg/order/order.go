// Package order implements the single-order state machine consumed by risk,
// routing and portfolio systems: the order status transition table, the Order
// aggregate with its append-only event log, and the fill economics (average
// price, slippage) that must stay numerically correct under partial fills.
//
// An Order is a sequential state machine. Apply assumes events for one order
// arrive in the order the upstream system determined them to have occurred;
// callers enforce this with a single-writer-per-order discipline. Distinct
// orders share no mutable state and may be advanced concurrently.
package order

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rterbush/nautilus-trader/pkg/identifiers"
)

var (
	// ErrUnrecognizedEvent is returned when an event kind passes the
	// transition table but has no handler. The aggregate is left untouched.
	ErrUnrecognizedEvent = errors.New("unrecognized order event")

	// ErrInvalidPriceUpdate is returned when an Updated event attempts to
	// populate a price field the order never had. This indicates an upstream
	// logic defect; the event is not applied.
	ErrInvalidPriceUpdate = errors.New("invalid update of unset price field")
)

// Order is the aggregate for a single order's lifecycle. Its in-memory state
// is always a faithful replay of the events it has accepted; every field
// below changes only inside Apply. Two orders are equal iff their client
// order ids are equal.
type Order struct {
	traderID      identifiers.TraderID
	strategyID    identifiers.StrategyID
	instrumentID  identifiers.InstrumentID
	clientOrderID identifiers.ClientOrderID
	venueOrderID  *identifiers.VenueOrderID
	positionID    *identifiers.PositionID
	accountID     *identifiers.AccountID
	lastTradeID   *identifiers.TradeID

	side               Side
	orderType          Type
	quantity           decimal.Decimal
	price              *decimal.Decimal
	triggerPrice       *decimal.Decimal
	triggerType        TriggerType
	timeInForce        TimeInForce
	expireTime         *time.Time
	liquiditySide      LiquiditySide
	postOnly           bool
	reduceOnly         bool
	quoteQuantity      bool
	displayQty         *decimal.Decimal
	limitOffset        *decimal.Decimal
	trailingOffset     *decimal.Decimal
	trailingOffsetType TriggerType
	emulationTrigger   TriggerType
	contingencyType    ContingencyType
	orderListID        *identifiers.OrderListID
	linkedOrderIDs     []identifiers.ClientOrderID
	parentOrderID      *identifiers.ClientOrderID
	tags               string

	status OrderStatus
	// previousStatus holds only the immediately preceding status: exactly one
	// level of rollback for when a pending modify/cancel is itself rejected
	// by the venue. Multi-level undo is deliberately not supported.
	previousStatus *OrderStatus
	filledQty      decimal.Decimal
	leavesQty      decimal.Decimal
	avgPx          *float64
	slippage       *float64
	triggeredPrice *decimal.Decimal
	venueOrderIDs  []identifiers.VenueOrderID
	tradeIDs       []identifiers.TradeID
	events         []Event

	initID      uuid.UUID
	tsInit      time.Time
	tsTriggered *time.Time
	tsLast      time.Time
}

// FromInitialized builds a new Order in StatusInitialized from its creation
// event. Optional fields are copied verbatim; fill state starts at zero with
// leaves quantity equal to the requested quantity.
func FromInitialized(ev Initialized) *Order {
	o := &Order{
		traderID:           ev.TraderID,
		strategyID:         ev.StrategyID,
		instrumentID:       ev.InstrumentID,
		clientOrderID:      ev.ClientOrderID,
		side:               ev.Side,
		orderType:          ev.OrderType,
		quantity:           ev.Quantity,
		price:              copyDecimal(ev.Price),
		triggerPrice:       copyDecimal(ev.TriggerPrice),
		triggerType:        ev.TriggerType,
		timeInForce:        ev.TimeInForce,
		expireTime:         copyTime(ev.ExpireTime),
		postOnly:           ev.PostOnly,
		reduceOnly:         ev.ReduceOnly,
		quoteQuantity:      ev.QuoteQuantity,
		displayQty:         copyDecimal(ev.DisplayQty),
		limitOffset:        copyDecimal(ev.LimitOffset),
		trailingOffset:     copyDecimal(ev.TrailingOffset),
		trailingOffsetType: ev.TrailingOffsetType,
		emulationTrigger:   ev.EmulationTrigger,
		contingencyType:    ev.ContingencyType,
		linkedOrderIDs:     append([]identifiers.ClientOrderID(nil), ev.LinkedOrderIDs...),
		tags:               ev.Tags,
		status:             StatusInitialized,
		filledQty:          decimal.Zero,
		leavesQty:          ev.Quantity,
		initID:             ev.EventID,
		tsInit:             ev.TsEvent,
		tsLast:             ev.TsEvent,
	}
	if ev.OrderListID != nil {
		id := *ev.OrderListID
		o.orderListID = &id
	}
	if ev.ParentOrderID != nil {
		id := *ev.ParentOrderID
		o.parentOrderID = &id
	}
	return o
}

// Apply advances the order by one event: transition lookup, handler dispatch,
// then event append, as a single atomic unit. On any error the aggregate is
// unchanged and the event does not enter the log. Handlers validate before
// they mutate so the status commit below only happens once the handler can no
// longer fail.
func (o *Order) Apply(event Event) error {
	next, err := TransitionStatus(o.status, event.Type())
	if err != nil {
		return fmt.Errorf("%w: %v -> %v", ErrInvalidStateTransition, o.status, event.Type())
	}

	rollback := false
	switch ev := event.(type) {
	case Initialized:
		// Creation-only; the transition table never admits it.
		return ErrUnrecognizedEvent
	case Denied:
		// No derived-field mutation beyond status.
	case Submitted:
		id := ev.AccountID
		o.accountID = &id
	case Rejected:
		// No derived-field mutation beyond status.
	case Accepted:
		id := ev.VenueOrderID
		o.venueOrderID = &id
		if ev.AccountID != nil {
			acct := *ev.AccountID
			o.accountID = &acct
		}
	case PendingUpdate:
		// Acknowledgment only.
	case PendingCancel:
		// Acknowledgment only.
	case ModifyRejected:
		if o.previousStatus == nil {
			return fmt.Errorf("%w: %v -> %v", ErrInvalidStateTransition, o.status, event.Type())
		}
		rollback = true
	case CancelRejected:
		if o.previousStatus == nil {
			return fmt.Errorf("%w: %v -> %v", ErrInvalidStateTransition, o.status, event.Type())
		}
		rollback = true
	case Updated:
		if err := o.update(ev); err != nil {
			return err
		}
	case Triggered:
		ts := ev.TsEvent
		o.tsTriggered = &ts
		if ev.Price != nil {
			o.triggeredPrice = copyDecimal(ev.Price)
		}
	case Canceled:
		// No derived-field mutation beyond status.
	case Expired:
		// No derived-field mutation beyond status.
	case PartiallyFilled:
		o.fill(ev.Meta, ev.FillDetails)
	case Filled:
		o.fill(ev.Meta, ev.FillDetails)
	default:
		return ErrUnrecognizedEvent
	}

	if rollback {
		// The pending request is abandoned and the order reverts to the
		// status it held before the request. The rollback slot itself is not
		// overwritten, so repeated rejections remain stable.
		o.status = *o.previousStatus
	} else {
		prev := o.status
		o.previousStatus = &prev
		o.status = next
	}
	o.events = append(o.events, event)
	return nil
}

func (o *Order) update(ev Updated) error {
	if ev.Price != nil && o.price == nil {
		return fmt.Errorf("%w: price", ErrInvalidPriceUpdate)
	}
	if ev.TriggerPrice != nil && o.triggerPrice == nil {
		return fmt.Errorf("%w: trigger price", ErrInvalidPriceUpdate)
	}

	if ev.VenueOrderID != nil && o.venueOrderID != nil && *ev.VenueOrderID != *o.venueOrderID {
		// The superseded id goes into history; the order now works under the
		// new venue id.
		o.venueOrderIDs = append(o.venueOrderIDs, *o.venueOrderID)
		id := *ev.VenueOrderID
		o.venueOrderID = &id
	}
	if ev.Price != nil {
		o.price = copyDecimal(ev.Price)
	}
	if ev.TriggerPrice != nil {
		o.triggerPrice = copyDecimal(ev.TriggerPrice)
	}
	o.quantity = ev.Quantity
	o.leavesQty = o.quantity.Sub(o.filledQty)
	return nil
}

func (o *Order) fill(meta Meta, d FillDetails) {
	id := d.VenueOrderID
	o.venueOrderID = &id
	if d.PositionID != nil {
		pid := *d.PositionID
		o.positionID = &pid
	}
	o.tradeIDs = append(o.tradeIDs, d.TradeID)
	tid := d.TradeID
	o.lastTradeID = &tid
	o.liquiditySide = d.LiquiditySide

	filledBefore := o.filledQty
	o.filledQty = o.filledQty.Add(d.LastQty)
	o.leavesQty = o.leavesQty.Sub(d.LastQty)
	o.tsLast = meta.TsEvent

	o.setAvgPx(filledBefore, d.LastQty, d.LastPx)
	o.setSlippage()
}

// setAvgPx maintains the running volume-weighted average fill price. The
// update uses a fused multiply-add to minimise rounding error; filledBefore
// is the filled quantity prior to this fill.
func (o *Order) setAvgPx(filledBefore, lastQty, lastPx decimal.Decimal) {
	before := filledBefore.InexactFloat64()
	qty := lastQty.InexactFloat64()
	px := lastPx.InexactFloat64()

	prev := px // first fill seeds with the fill price
	if o.avgPx != nil {
		prev = *o.avgPx
	}
	avg := math.FMA(prev, before, px*qty) / (before + qty)
	o.avgPx = &avg
}

// setSlippage recomputes slippage against the order's limit price. Slippage
// is never negative: an order that filled at or better than its reference
// price has none recorded.
func (o *Order) setSlippage() {
	o.slippage = nil
	if o.avgPx == nil || o.price == nil {
		return
	}
	avg := *o.avgPx
	ref := o.price.InexactFloat64()
	switch o.side {
	case SideBuy:
		if avg > ref {
			s := avg - ref
			o.slippage = &s
		}
	case SideSell:
		if avg < ref {
			s := ref - avg
			o.slippage = &s
		}
	}
}

// Equal reports order identity, which is defined solely by client order id.
func (o *Order) Equal(other *Order) bool {
	return other != nil && o.clientOrderID == other.clientOrderID
}

func (o *Order) Status() OrderStatus { return o.status }

// PreviousStatus returns the immediately preceding status, or false before
// the first transition.
func (o *Order) PreviousStatus() (OrderStatus, bool) {
	if o.previousStatus == nil {
		return 0, false
	}
	return *o.previousStatus, true
}

func (o *Order) TraderID() identifiers.TraderID           { return o.traderID }
func (o *Order) StrategyID() identifiers.StrategyID       { return o.strategyID }
func (o *Order) InstrumentID() identifiers.InstrumentID   { return o.instrumentID }
func (o *Order) ClientOrderID() identifiers.ClientOrderID { return o.clientOrderID }
func (o *Order) Side() Side                               { return o.side }
func (o *Order) OrderType() Type                          { return o.orderType }
func (o *Order) TimeInForce() TimeInForce                 { return o.timeInForce }
func (o *Order) Quantity() decimal.Decimal                { return o.quantity }
func (o *Order) FilledQty() decimal.Decimal               { return o.filledQty }
func (o *Order) LeavesQty() decimal.Decimal               { return o.leavesQty }
func (o *Order) TsInit() time.Time                        { return o.tsInit }
func (o *Order) TsLast() time.Time                        { return o.tsLast }
func (o *Order) InitID() uuid.UUID                        { return o.initID }

func (o *Order) VenueOrderID() (identifiers.VenueOrderID, bool) {
	if o.venueOrderID == nil {
		return identifiers.VenueOrderID{}, false
	}
	return *o.venueOrderID, true
}

func (o *Order) AccountID() (identifiers.AccountID, bool) {
	if o.accountID == nil {
		return identifiers.AccountID{}, false
	}
	return *o.accountID, true
}

func (o *Order) PositionID() (identifiers.PositionID, bool) {
	if o.positionID == nil {
		return identifiers.PositionID{}, false
	}
	return *o.positionID, true
}

func (o *Order) LastTradeID() (identifiers.TradeID, bool) {
	if o.lastTradeID == nil {
		return identifiers.TradeID{}, false
	}
	return *o.lastTradeID, true
}

// Price returns the order's limit price, or false when it has none.
func (o *Order) Price() (decimal.Decimal, bool) {
	if o.price == nil {
		return decimal.Decimal{}, false
	}
	return *o.price, true
}

func (o *Order) TriggerPrice() (decimal.Decimal, bool) {
	if o.triggerPrice == nil {
		return decimal.Decimal{}, false
	}
	return *o.triggerPrice, true
}

// AvgPx returns the running volume-weighted average fill price, or false
// before the first fill.
func (o *Order) AvgPx() (float64, bool) {
	if o.avgPx == nil {
		return 0, false
	}
	return *o.avgPx, true
}

// Slippage returns the unfavorable difference between average fill price and
// the limit price, or false when undefined.
func (o *Order) Slippage() (float64, bool) {
	if o.slippage == nil {
		return 0, false
	}
	return *o.slippage, true
}

// Events returns a copy of the event log, ordered exactly as events were
// applied.
func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

func (o *Order) EventCount() int { return len(o.events) }

// LastEvent returns the most recently applied event, or nil before any.
func (o *Order) LastEvent() Event {
	if len(o.events) == 0 {
		return nil
	}
	return o.events[len(o.events)-1]
}

// VenueOrderIDs returns a copy of the superseded venue order id history.
func (o *Order) VenueOrderIDs() []identifiers.VenueOrderID {
	return append([]identifiers.VenueOrderID(nil), o.venueOrderIDs...)
}

// TradeIDs returns a copy of the trade id history in fill order.
func (o *Order) TradeIDs() []identifiers.TradeID {
	return append([]identifiers.TradeID(nil), o.tradeIDs...)
}

func (o *Order) IsBuy() bool        { return o.side == SideBuy }
func (o *Order) IsSell() bool       { return o.side == SideSell }
func (o *Order) IsPassive() bool    { return o.orderType != TypeMarket }
func (o *Order) IsAggressive() bool { return o.orderType == TypeMarket }

// IsEmulated reports whether the order rests locally until its emulation
// trigger fires.
func (o *Order) IsEmulated() bool { return o.emulationTrigger != TriggerNone }

func (o *Order) IsContingency() bool { return o.contingencyType != ContingencyNone }
func (o *Order) IsParentOrder() bool { return o.contingencyType == ContingencyOTO }
func (o *Order) IsChildOrder() bool  { return o.parentOrderID != nil }

// IsOpen reports whether the order is working at the venue. Emulated orders
// are never open regardless of status.
func (o *Order) IsOpen() bool {
	if o.IsEmulated() {
		return false
	}
	switch o.status {
	case StatusAccepted, StatusTriggered, StatusPendingCancel, StatusPendingUpdate, StatusPartiallyFilled:
		return true
	}
	return false
}

// IsClosed reports whether the order has reached a terminal status.
func (o *Order) IsClosed() bool {
	switch o.status {
	case StatusDenied, StatusRejected, StatusCanceled, StatusExpired, StatusFilled:
		return true
	}
	return false
}

// IsInflight reports whether a request for the order is awaiting a venue
// response. Emulated orders are never in flight regardless of status.
func (o *Order) IsInflight() bool {
	if o.IsEmulated() {
		return false
	}
	switch o.status {
	case StatusSubmitted, StatusPendingCancel, StatusPendingUpdate:
		return true
	}
	return false
}

func (o *Order) IsPendingUpdate() bool { return o.status == StatusPendingUpdate }
func (o *Order) IsPendingCancel() bool { return o.status == StatusPendingCancel }

// OppositeSide returns Buy for Sell and vice versa; SideNone maps to itself.
func OppositeSide(side Side) Side {
	switch side {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideNone
	}
}

// ClosingSide returns the order side that would flatten the given position
// side.
func ClosingSide(side PositionSide) Side {
	switch side {
	case PositionLong:
		return SideSell
	case PositionShort:
		return SideBuy
	default:
		return SideNone
	}
}

// WouldReduceOnly reports whether the order could only ever reduce the given
// position: false against a flat position, false when the order trades in the
// position's direction, and otherwise true only if the remaining quantity
// cannot flip the position.
func (o *Order) WouldReduceOnly(side PositionSide, positionQty decimal.Decimal) bool {
	if side == PositionFlat {
		return false
	}
	switch {
	case o.side == SideBuy && side == PositionLong:
		return false
	case o.side == SideBuy && side == PositionShort:
		return o.leavesQty.LessThanOrEqual(positionQty)
	case o.side == SideSell && side == PositionShort:
		return false
	case o.side == SideSell && side == PositionLong:
		return o.leavesQty.LessThanOrEqual(positionQty)
	}
	return true
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
