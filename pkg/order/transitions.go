package order

import "errors"

// ErrInvalidStateTransition is returned when the (current status, event kind)
// pair has no entry in the transition table. The aggregate is guaranteed
// unchanged; callers should treat it as a protocol violation by the upstream
// producer (duplicate or stale event) rather than retrying.
var ErrInvalidStateTransition = errors.New("invalid order state transition")

// TransitionStatus maps the current status and an incoming event kind to the
// next status. Pure and deterministic; every pair not enumerated below fails
// with ErrInvalidStateTransition.
//
// For EventModifyRejected and EventCancelRejected the returned status is the
// current (pending) status: the real next status is the aggregate's one-level
// rollback slot, which only Apply can see.
//
// Each case lists its allowed events explicitly so that a new status or event
// kind falls out of the table loudly instead of into a wildcard.
func TransitionStatus(current OrderStatus, event EventType) (OrderStatus, error) {
	switch current {
	case StatusInitialized:
		switch event {
		case EventDenied:
			return StatusDenied, nil
		case EventSubmitted:
			return StatusSubmitted, nil
		case EventRejected: // covers external orders
			return StatusRejected, nil
		case EventAccepted: // covers external orders
			return StatusAccepted, nil
		case EventCanceled: // covers emulated and external orders
			return StatusCanceled, nil
		case EventExpired: // covers emulated and external orders
			return StatusExpired, nil
		case EventTriggered: // covers emulated and external orders
			return StatusTriggered, nil
		}

	case StatusSubmitted:
		switch event {
		case EventPendingUpdate:
			return StatusPendingUpdate, nil
		case EventPendingCancel:
			return StatusPendingCancel, nil
		case EventRejected:
			return StatusRejected, nil
		case EventCanceled: // covers FOK and IOC cases
			return StatusCanceled, nil
		case EventAccepted:
			return StatusAccepted, nil
		case EventTriggered: // covers emulated stop-limit orders
			return StatusTriggered, nil
		case EventPartiallyFilled:
			return StatusPartiallyFilled, nil
		case EventFilled:
			return StatusFilled, nil
		}

	case StatusAccepted:
		switch event {
		case EventRejected: // covers stop-limit orders
			return StatusRejected, nil
		case EventPendingUpdate:
			return StatusPendingUpdate, nil
		case EventPendingCancel:
			return StatusPendingCancel, nil
		case EventCanceled:
			return StatusCanceled, nil
		case EventTriggered:
			return StatusTriggered, nil
		case EventExpired:
			return StatusExpired, nil
		case EventUpdated: // venue restated the working order
			return StatusAccepted, nil
		case EventPartiallyFilled:
			return StatusPartiallyFilled, nil
		case EventFilled:
			return StatusFilled, nil
		}

	case StatusCanceled:
		switch event {
		case EventPartiallyFilled: // fill racing the cancel acknowledgment
			return StatusPartiallyFilled, nil
		case EventFilled: // fill racing the cancel acknowledgment
			return StatusFilled, nil
		}

	case StatusPendingUpdate:
		switch event {
		case EventRejected:
			return StatusRejected, nil
		case EventAccepted:
			return StatusAccepted, nil
		case EventCanceled:
			return StatusCanceled, nil
		case EventExpired:
			return StatusExpired, nil
		case EventTriggered:
			return StatusTriggered, nil
		case EventPendingUpdate: // allow multiple requests
			return StatusPendingUpdate, nil
		case EventPendingCancel:
			return StatusPendingCancel, nil
		case EventModifyRejected: // resolved to the rollback slot by Apply
			return StatusPendingUpdate, nil
		case EventUpdated: // venue acknowledged the modify
			return StatusAccepted, nil
		case EventPartiallyFilled:
			return StatusPartiallyFilled, nil
		case EventFilled:
			return StatusFilled, nil
		}

	case StatusPendingCancel:
		switch event {
		case EventRejected:
			return StatusRejected, nil
		case EventPendingCancel: // allow multiple requests
			return StatusPendingCancel, nil
		case EventCanceled:
			return StatusCanceled, nil
		case EventAccepted: // allow failed cancel requests
			return StatusAccepted, nil
		case EventCancelRejected: // resolved to the rollback slot by Apply
			return StatusPendingCancel, nil
		case EventPartiallyFilled:
			return StatusPartiallyFilled, nil
		case EventFilled:
			return StatusFilled, nil
		}

	case StatusTriggered:
		switch event {
		case EventRejected:
			return StatusRejected, nil
		case EventPendingUpdate:
			return StatusPendingUpdate, nil
		case EventPendingCancel:
			return StatusPendingCancel, nil
		case EventCanceled:
			return StatusCanceled, nil
		case EventExpired:
			return StatusExpired, nil
		case EventUpdated: // venue restated the triggered order
			return StatusTriggered, nil
		case EventPartiallyFilled:
			return StatusPartiallyFilled, nil
		case EventFilled:
			return StatusFilled, nil
		}

	case StatusPartiallyFilled:
		switch event {
		case EventPendingUpdate:
			return StatusPendingUpdate, nil
		case EventPendingCancel:
			return StatusPendingCancel, nil
		case EventCanceled:
			return StatusCanceled, nil
		case EventExpired:
			return StatusExpired, nil
		case EventUpdated: // venue restated the partially filled order
			return StatusPartiallyFilled, nil
		case EventPartiallyFilled: // further fills
			return StatusPartiallyFilled, nil
		case EventFilled:
			return StatusFilled, nil
		}

	case StatusDenied, StatusRejected, StatusExpired, StatusFilled:
		// Terminal; no events accepted.
	}

	return current, ErrInvalidStateTransition
}
