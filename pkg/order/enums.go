package order

import "fmt"

// OrderStatus is the current lifecycle state of an order. An order holds
// exactly one status at a time; it changes only through Apply.
type OrderStatus int

const (
	StatusInitialized OrderStatus = iota
	StatusDenied
	StatusSubmitted
	StatusRejected
	StatusAccepted
	StatusPendingUpdate
	StatusPendingCancel
	StatusCanceled
	StatusExpired
	StatusTriggered
	StatusPartiallyFilled
	StatusFilled
)

// String returns the string representation
func (s OrderStatus) String() string {
	switch s {
	case StatusInitialized:
		return "INITIALIZED"
	case StatusDenied:
		return "DENIED"
	case StatusSubmitted:
		return "SUBMITTED"
	case StatusRejected:
		return "REJECTED"
	case StatusAccepted:
		return "ACCEPTED"
	case StatusPendingUpdate:
		return "PENDING_UPDATE"
	case StatusPendingCancel:
		return "PENDING_CANCEL"
	case StatusCanceled:
		return "CANCELED"
	case StatusExpired:
		return "EXPIRED"
	case StatusTriggered:
		return "TRIGGERED"
	case StatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case StatusFilled:
		return "FILLED"
	default:
		return "UNKNOWN"
	}
}

// StatusFromString converts a string to OrderStatus
func StatusFromString(s string) (OrderStatus, error) {
	switch s {
	case "INITIALIZED":
		return StatusInitialized, nil
	case "DENIED":
		return StatusDenied, nil
	case "SUBMITTED":
		return StatusSubmitted, nil
	case "REJECTED":
		return StatusRejected, nil
	case "ACCEPTED":
		return StatusAccepted, nil
	case "PENDING_UPDATE":
		return StatusPendingUpdate, nil
	case "PENDING_CANCEL":
		return StatusPendingCancel, nil
	case "CANCELED":
		return StatusCanceled, nil
	case "EXPIRED":
		return StatusExpired, nil
	case "TRIGGERED":
		return StatusTriggered, nil
	case "PARTIALLY_FILLED":
		return StatusPartiallyFilled, nil
	case "FILLED":
		return StatusFilled, nil
	default:
		return 0, fmt.Errorf("unknown order status %q", s)
	}
}

func (s OrderStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *OrderStatus) UnmarshalText(text []byte) error {
	v, err := StatusFromString(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// EventType is the kind tag of an order lifecycle event.
type EventType int

const (
	EventInitialized EventType = iota
	EventDenied
	EventSubmitted
	EventRejected
	EventAccepted
	EventPendingUpdate
	EventPendingCancel
	EventModifyRejected
	EventCancelRejected
	EventUpdated
	EventTriggered
	EventCanceled
	EventExpired
	EventPartiallyFilled
	EventFilled
)

// String returns the string representation
func (t EventType) String() string {
	switch t {
	case EventInitialized:
		return "INITIALIZED"
	case EventDenied:
		return "DENIED"
	case EventSubmitted:
		return "SUBMITTED"
	case EventRejected:
		return "REJECTED"
	case EventAccepted:
		return "ACCEPTED"
	case EventPendingUpdate:
		return "PENDING_UPDATE"
	case EventPendingCancel:
		return "PENDING_CANCEL"
	case EventModifyRejected:
		return "MODIFY_REJECTED"
	case EventCancelRejected:
		return "CANCEL_REJECTED"
	case EventUpdated:
		return "UPDATED"
	case EventTriggered:
		return "TRIGGERED"
	case EventCanceled:
		return "CANCELED"
	case EventExpired:
		return "EXPIRED"
	case EventPartiallyFilled:
		return "PARTIALLY_FILLED"
	case EventFilled:
		return "FILLED"
	default:
		return "UNKNOWN"
	}
}

// EventTypeFromString converts a string to EventType
func EventTypeFromString(s string) (EventType, error) {
	switch s {
	case "INITIALIZED":
		return EventInitialized, nil
	case "DENIED":
		return EventDenied, nil
	case "SUBMITTED":
		return EventSubmitted, nil
	case "REJECTED":
		return EventRejected, nil
	case "ACCEPTED":
		return EventAccepted, nil
	case "PENDING_UPDATE":
		return EventPendingUpdate, nil
	case "PENDING_CANCEL":
		return EventPendingCancel, nil
	case "MODIFY_REJECTED":
		return EventModifyRejected, nil
	case "CANCEL_REJECTED":
		return EventCancelRejected, nil
	case "UPDATED":
		return EventUpdated, nil
	case "TRIGGERED":
		return EventTriggered, nil
	case "CANCELED":
		return EventCanceled, nil
	case "EXPIRED":
		return EventExpired, nil
	case "PARTIALLY_FILLED":
		return EventPartiallyFilled, nil
	case "FILLED":
		return EventFilled, nil
	default:
		return 0, fmt.Errorf("unknown order event type %q", s)
	}
}

// Side represents the order side (Buy/Sell)
type Side int

const (
	SideNone Side = iota
	SideBuy
	SideSell
)

// String returns the string representation
func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// SideFromString converts a string to Side
func SideFromString(s string) (Side, error) {
	switch s {
	case "BUY":
		return SideBuy, nil
	case "SELL":
		return SideSell, nil
	case "NONE":
		return SideNone, nil
	default:
		return 0, fmt.Errorf("unknown order side %q", s)
	}
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(text []byte) error {
	v, err := SideFromString(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// PositionSide is the direction of an existing position.
type PositionSide int

const (
	PositionNone PositionSide = iota
	PositionFlat
	PositionLong
	PositionShort
)

// String returns the string representation
func (s PositionSide) String() string {
	switch s {
	case PositionFlat:
		return "FLAT"
	case PositionLong:
		return "LONG"
	case PositionShort:
		return "SHORT"
	default:
		return "NONE"
	}
}

// Type represents the type of order
type Type int

const (
	TypeMarket Type = iota
	TypeLimit
	TypeStopMarket
	TypeStopLimit
	TypeMarketIfTouched
	TypeLimitIfTouched
	TypeTrailingStopMarket
	TypeTrailingStopLimit
)

// String returns the string representation
func (t Type) String() string {
	switch t {
	case TypeMarket:
		return "MARKET"
	case TypeLimit:
		return "LIMIT"
	case TypeStopMarket:
		return "STOP_MARKET"
	case TypeStopLimit:
		return "STOP_LIMIT"
	case TypeMarketIfTouched:
		return "MARKET_IF_TOUCHED"
	case TypeLimitIfTouched:
		return "LIMIT_IF_TOUCHED"
	case TypeTrailingStopMarket:
		return "TRAILING_STOP_MARKET"
	case TypeTrailingStopLimit:
		return "TRAILING_STOP_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// TypeFromString converts a string to Type
func TypeFromString(s string) (Type, error) {
	switch s {
	case "MARKET":
		return TypeMarket, nil
	case "LIMIT":
		return TypeLimit, nil
	case "STOP_MARKET":
		return TypeStopMarket, nil
	case "STOP_LIMIT":
		return TypeStopLimit, nil
	case "MARKET_IF_TOUCHED":
		return TypeMarketIfTouched, nil
	case "LIMIT_IF_TOUCHED":
		return TypeLimitIfTouched, nil
	case "TRAILING_STOP_MARKET":
		return TypeTrailingStopMarket, nil
	case "TRAILING_STOP_LIMIT":
		return TypeTrailingStopLimit, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", s)
	}
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(text []byte) error {
	v, err := TypeFromString(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TimeInForce represents the time in force for an order
type TimeInForce int

const (
	TimeInForceGTC TimeInForce = iota // Good Till Canceled
	TimeInForceIOC                    // Immediate or Cancel
	TimeInForceFOK                    // Fill or Kill
	TimeInForceGTD                    // Good Till Date
	TimeInForceDay
	TimeInForceAtTheOpen
	TimeInForceAtTheClose
)

// String returns the string representation
func (t TimeInForce) String() string {
	switch t {
	case TimeInForceGTC:
		return "GTC"
	case TimeInForceIOC:
		return "IOC"
	case TimeInForceFOK:
		return "FOK"
	case TimeInForceGTD:
		return "GTD"
	case TimeInForceDay:
		return "DAY"
	case TimeInForceAtTheOpen:
		return "AT_THE_OPEN"
	case TimeInForceAtTheClose:
		return "AT_THE_CLOSE"
	default:
		return "UNKNOWN"
	}
}

// TimeInForceFromString converts a string to TimeInForce
func TimeInForceFromString(s string) (TimeInForce, error) {
	switch s {
	case "GTC":
		return TimeInForceGTC, nil
	case "IOC":
		return TimeInForceIOC, nil
	case "FOK":
		return TimeInForceFOK, nil
	case "GTD":
		return TimeInForceGTD, nil
	case "DAY":
		return TimeInForceDay, nil
	case "AT_THE_OPEN":
		return TimeInForceAtTheOpen, nil
	case "AT_THE_CLOSE":
		return TimeInForceAtTheClose, nil
	default:
		return 0, fmt.Errorf("unknown time in force %q", s)
	}
}

func (t TimeInForce) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeInForce) UnmarshalText(text []byte) error {
	v, err := TimeInForceFromString(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TriggerType is the price source that arms a conditional order. TriggerNone
// means the order has no trigger; on emulation_trigger it means the order is
// not emulated.
type TriggerType int

const (
	TriggerNone TriggerType = iota
	TriggerDefault
	TriggerBidAsk
	TriggerLastPrice
	TriggerMarkPrice
	TriggerIndexPrice
)

// String returns the string representation
func (t TriggerType) String() string {
	switch t {
	case TriggerDefault:
		return "DEFAULT"
	case TriggerBidAsk:
		return "BID_ASK"
	case TriggerLastPrice:
		return "LAST_PRICE"
	case TriggerMarkPrice:
		return "MARK_PRICE"
	case TriggerIndexPrice:
		return "INDEX_PRICE"
	default:
		return "NONE"
	}
}

// TriggerTypeFromString converts a string to TriggerType
func TriggerTypeFromString(s string) (TriggerType, error) {
	switch s {
	case "NONE", "":
		return TriggerNone, nil
	case "DEFAULT":
		return TriggerDefault, nil
	case "BID_ASK":
		return TriggerBidAsk, nil
	case "LAST_PRICE":
		return TriggerLastPrice, nil
	case "MARK_PRICE":
		return TriggerMarkPrice, nil
	case "INDEX_PRICE":
		return TriggerIndexPrice, nil
	default:
		return 0, fmt.Errorf("unknown trigger type %q", s)
	}
}

func (t TriggerType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TriggerType) UnmarshalText(text []byte) error {
	v, err := TriggerTypeFromString(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// LiquiditySide records whether a fill made or took liquidity.
type LiquiditySide int

const (
	LiquidityNone LiquiditySide = iota
	LiquidityMaker
	LiquidityTaker
)

// String returns the string representation
func (s LiquiditySide) String() string {
	switch s {
	case LiquidityMaker:
		return "MAKER"
	case LiquidityTaker:
		return "TAKER"
	default:
		return "NONE"
	}
}

// LiquiditySideFromString converts a string to LiquiditySide
func LiquiditySideFromString(s string) (LiquiditySide, error) {
	switch s {
	case "MAKER":
		return LiquidityMaker, nil
	case "TAKER":
		return LiquidityTaker, nil
	case "NONE", "":
		return LiquidityNone, nil
	default:
		return 0, fmt.Errorf("unknown liquidity side %q", s)
	}
}

func (s LiquiditySide) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *LiquiditySide) UnmarshalText(text []byte) error {
	v, err := LiquiditySideFromString(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ContingencyType links an order to its siblings (one-cancels-other and
// friends). ContingencyNone means the order stands alone.
type ContingencyType int

const (
	ContingencyNone ContingencyType = iota
	ContingencyOCO                  // One Cancels Other
	ContingencyOTO                  // One Triggers Other
	ContingencyOUO                  // One Updates Other
)

// String returns the string representation
func (c ContingencyType) String() string {
	switch c {
	case ContingencyOCO:
		return "OCO"
	case ContingencyOTO:
		return "OTO"
	case ContingencyOUO:
		return "OUO"
	default:
		return "NONE"
	}
}

// ContingencyTypeFromString converts a string to ContingencyType
func ContingencyTypeFromString(s string) (ContingencyType, error) {
	switch s {
	case "OCO":
		return ContingencyOCO, nil
	case "OTO":
		return ContingencyOTO, nil
	case "OUO":
		return ContingencyOUO, nil
	case "NONE", "":
		return ContingencyNone, nil
	default:
		return 0, fmt.Errorf("unknown contingency type %q", s)
	}
}

func (c ContingencyType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ContingencyType) UnmarshalText(text []byte) error {
	v, err := ContingencyTypeFromString(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
