package order

import (
	"encoding/json"
	"fmt"
)

// DecodeEvent deserializes a wire payload into the concrete event for the
// given event type tag. Identifier fields are validated by their own
// UnmarshalText implementations; this function additionally checks the fields
// each variant cannot do without.
func DecodeEvent(eventType string, data []byte) (Event, error) {
	et, err := EventTypeFromString(eventType)
	if err != nil {
		return nil, err
	}

	var ev Event
	switch et {
	case EventInitialized:
		var e Initialized
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if e.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("decode %s: quantity must be positive", eventType)
		}
		ev = e
	case EventDenied:
		var e Denied
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventSubmitted:
		var e Submitted
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if e.AccountID.IsZero() {
			return nil, fmt.Errorf("decode %s: account_id is required", eventType)
		}
		ev = e
	case EventRejected:
		var e Rejected
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventAccepted:
		var e Accepted
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if e.VenueOrderID.IsZero() {
			return nil, fmt.Errorf("decode %s: venue_order_id is required", eventType)
		}
		ev = e
	case EventPendingUpdate:
		var e PendingUpdate
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventPendingCancel:
		var e PendingCancel
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventModifyRejected:
		var e ModifyRejected
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventCancelRejected:
		var e CancelRejected
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventUpdated:
		var e Updated
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if e.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("decode %s: quantity must be positive", eventType)
		}
		ev = e
	case EventTriggered:
		var e Triggered
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventCanceled:
		var e Canceled
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventExpired:
		var e Expired
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		ev = e
	case EventPartiallyFilled:
		var e PartiallyFilled
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if err := validateFill(eventType, e.FillDetails); err != nil {
			return nil, err
		}
		ev = e
	case EventFilled:
		var e Filled
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", eventType, err)
		}
		if err := validateFill(eventType, e.FillDetails); err != nil {
			return nil, err
		}
		ev = e
	default:
		return nil, fmt.Errorf("no decoder for event type %s", eventType)
	}

	if ev.OrderID().IsZero() {
		return nil, fmt.Errorf("decode %s: client_order_id is required", eventType)
	}
	return ev, nil
}

func validateFill(eventType string, d FillDetails) error {
	if d.VenueOrderID.IsZero() {
		return fmt.Errorf("decode %s: venue_order_id is required", eventType)
	}
	if d.TradeID.IsZero() {
		return fmt.Errorf("decode %s: trade_id is required", eventType)
	}
	if d.LastQty.Sign() <= 0 {
		return fmt.Errorf("decode %s: last_qty must be positive", eventType)
	}
	if d.LastPx.Sign() <= 0 {
		return fmt.Errorf("decode %s: last_px must be positive", eventType)
	}
	return nil
}
