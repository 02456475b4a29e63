// Package identifiers provides the validated identifier value types used
// across the order lifecycle core. Every type is an immutable string wrapper:
// comparable, usable as a map key, and round-trippable as text. Construction
// is the only place validation happens; a zero value is recognisable via
// IsZero but never produced by a constructor.
package identifiers

import (
	"fmt"
	"strings"
)

func validate(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s value must not be empty or whitespace", name)
	}
	return nil
}

func validateContains(value, substr, name string) error {
	if !strings.Contains(value, substr) {
		return fmt.Errorf("%s value %q must contain %q", name, value, substr)
	}
	return nil
}

// TraderID identifies a trader. The value must contain a "-" separator,
// e.g. "TRADER-001".
type TraderID struct{ value string }

func NewTraderID(value string) (TraderID, error) {
	if err := validate(value, "TraderID"); err != nil {
		return TraderID{}, err
	}
	if err := validateContains(value, "-", "TraderID"); err != nil {
		return TraderID{}, err
	}
	return TraderID{value: value}, nil
}

func (id TraderID) String() string { return id.value }
func (id TraderID) IsZero() bool   { return id.value == "" }

func (id TraderID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *TraderID) UnmarshalText(text []byte) error {
	v, err := NewTraderID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// StrategyID identifies a strategy instance, e.g. "EMACross-001".
type StrategyID struct{ value string }

func NewStrategyID(value string) (StrategyID, error) {
	if err := validate(value, "StrategyID"); err != nil {
		return StrategyID{}, err
	}
	return StrategyID{value: value}, nil
}

func (id StrategyID) String() string { return id.value }
func (id StrategyID) IsZero() bool   { return id.value == "" }

func (id StrategyID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *StrategyID) UnmarshalText(text []byte) error {
	v, err := NewStrategyID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// InstrumentID identifies a tradable instrument, e.g. "BTCUSDT.BINANCE".
type InstrumentID struct{ value string }

func NewInstrumentID(value string) (InstrumentID, error) {
	if err := validate(value, "InstrumentID"); err != nil {
		return InstrumentID{}, err
	}
	return InstrumentID{value: value}, nil
}

func (id InstrumentID) String() string { return id.value }
func (id InstrumentID) IsZero() bool   { return id.value == "" }

func (id InstrumentID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *InstrumentID) UnmarshalText(text []byte) error {
	v, err := NewInstrumentID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// ClientOrderID is the client-assigned order identifier. Order equality is
// defined solely by this id.
type ClientOrderID struct{ value string }

func NewClientOrderID(value string) (ClientOrderID, error) {
	if err := validate(value, "ClientOrderID"); err != nil {
		return ClientOrderID{}, err
	}
	return ClientOrderID{value: value}, nil
}

func (id ClientOrderID) String() string { return id.value }
func (id ClientOrderID) IsZero() bool   { return id.value == "" }

func (id ClientOrderID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *ClientOrderID) UnmarshalText(text []byte) error {
	v, err := NewClientOrderID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// VenueOrderID is the identifier the execution venue assigns to an order.
type VenueOrderID struct{ value string }

func NewVenueOrderID(value string) (VenueOrderID, error) {
	if err := validate(value, "VenueOrderID"); err != nil {
		return VenueOrderID{}, err
	}
	return VenueOrderID{value: value}, nil
}

func (id VenueOrderID) String() string { return id.value }
func (id VenueOrderID) IsZero() bool   { return id.value == "" }

func (id VenueOrderID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *VenueOrderID) UnmarshalText(text []byte) error {
	v, err := NewVenueOrderID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// AccountID identifies a venue account, e.g. "BINANCE-master".
type AccountID struct{ value string }

func NewAccountID(value string) (AccountID, error) {
	if err := validate(value, "AccountID"); err != nil {
		return AccountID{}, err
	}
	return AccountID{value: value}, nil
}

func (id AccountID) String() string { return id.value }
func (id AccountID) IsZero() bool   { return id.value == "" }

func (id AccountID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *AccountID) UnmarshalText(text []byte) error {
	v, err := NewAccountID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// PositionID identifies a position an order's fills contribute to.
type PositionID struct{ value string }

func NewPositionID(value string) (PositionID, error) {
	if err := validate(value, "PositionID"); err != nil {
		return PositionID{}, err
	}
	return PositionID{value: value}, nil
}

func (id PositionID) String() string { return id.value }
func (id PositionID) IsZero() bool   { return id.value == "" }

func (id PositionID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *PositionID) UnmarshalText(text []byte) error {
	v, err := NewPositionID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// TradeID is the venue-assigned identifier for a single fill.
type TradeID struct{ value string }

func NewTradeID(value string) (TradeID, error) {
	if err := validate(value, "TradeID"); err != nil {
		return TradeID{}, err
	}
	return TradeID{value: value}, nil
}

func (id TradeID) String() string { return id.value }
func (id TradeID) IsZero() bool   { return id.value == "" }

func (id TradeID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *TradeID) UnmarshalText(text []byte) error {
	v, err := NewTradeID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// OrderListID identifies a list of contingent orders submitted together.
type OrderListID struct{ value string }

func NewOrderListID(value string) (OrderListID, error) {
	if err := validate(value, "OrderListID"); err != nil {
		return OrderListID{}, err
	}
	return OrderListID{value: value}, nil
}

func (id OrderListID) String() string { return id.value }
func (id OrderListID) IsZero() bool   { return id.value == "" }

func (id OrderListID) MarshalText() ([]byte, error) { return []byte(id.value), nil }

func (id *OrderListID) UnmarshalText(text []byte) error {
	v, err := NewOrderListID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
