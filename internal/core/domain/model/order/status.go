package order

import (
	"fmt"

	"voiceorder/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine over the fixed delivery ordering; each status except the terminals
// has exactly one successor, plus the Cancelled side branch reachable from
// any state before PickedUp.
//
// State transitions:
//
//	Cart -> Placed -> Confirmed -> Preparing -> Ready
//	     -> PickedUp -> InTransit -> Delivered -> Completed
//
//	Cancelled is reachable from Cart..Ready only.
//
// Status is a value object; transition checks are side-effect free.
type Status int

const (
	// Unknown represents an invalid or undefined status. The zero value
	// catches uninitialized Status fields.
	Unknown Status = iota

	// Cart is the initial status: the caller is still assembling items,
	// address, and payment method.
	Cart

	// Placed means the cart was confirmed into a real order.
	Placed

	// Confirmed means the restaurant accepted the order.
	Confirmed

	// Preparing means the kitchen is working on the order.
	Preparing

	// Ready means the order awaits driver pickup.
	Ready

	// PickedUp means the driver collected the order. Cancellation is no
	// longer possible from here on.
	PickedUp

	// InTransit means the driver is on the way to the customer.
	InTransit

	// Delivered means the order reached the customer. Terminal for the
	// delivery flow; only Completed may follow.
	Delivered

	// Completed means post-delivery follow-up finished. Final state.
	Completed

	// Cancelled is the side branch for orders abandoned before pickup.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Cart:      "cart",
		Placed:    "placed",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// StatusFromString parses the persisted string form of a status.
// Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the snake_case name of the status, matching the persisted
// and API form. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Next returns the immediate successor in the fixed lifecycle ordering.
// ok is false for terminal states and for Unknown.
func (s Status) Next() (next Status, ok bool) {
	switch s {
	case Cart:
		return Placed, true
	case Placed:
		return Confirmed, true
	case Confirmed:
		return Preparing, true
	case Preparing:
		return Ready, true
	case Ready:
		return PickedUp, true
	case PickedUp:
		return InTransit, true
	case InTransit:
		return Delivered, true
	case Delivered:
		return Completed, true
	default:
		return Unknown, false
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsSettled reports whether the order has finished its forward flow:
// delivered, completed, or cancelled. Settled orders reject item, address,
// and payment mutation; only feedback and refund records may attach.
func (s Status) IsSettled() bool {
	return s == Delivered || s.IsTerminal()
}

// IsCancellable reports whether the Cancelled branch is reachable from this
// status. Cancellation is rejected once the driver has picked up the order.
func (s Status) IsCancellable() bool {
	switch s {
	case Cart, Placed, Confirmed, Preparing, Ready:
		return true
	default:
		return false
	}
}

// CanHoldDriver reports whether a driver assignment is consistent with this
// status. Drivers are assigned at Confirmed and travel with the order until
// it settles.
func (s Status) CanHoldDriver() bool {
	switch s {
	case Confirmed, Preparing, Ready, PickedUp, InTransit, Delivered, Completed:
		return true
	default:
		return false
	}
}

// Advance validates a transition to target and returns the resulting status.
// Terminal origins fail with TerminalStateViolationError. A target other
// than the immediate successor fails with InvalidTransitionError, except
// Cancelled, which is validated against IsCancellable and fails with
// LifecycleViolationError once pickup has occurred.
func (s Status) Advance(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if s.IsTerminal() {
		return Unknown, NewTerminalStateViolationError(s)
	}

	if target == Cancelled {
		if !s.IsCancellable() {
			return Unknown, NewLifecycleViolationError(s)
		}
		return Cancelled, nil
	}

	next, ok := s.Next()
	if !ok || next != target {
		return Unknown, NewInvalidTransitionError(s, target)
	}

	return target, nil
}
