package order

import (
	"errors"
	"time"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order represents a food delivery order. It is the aggregate root that
// manages the lifecycle from cart assembly through delivery to completion,
// or to cancellation before pickup.
//
// Order invariants:
//   - Must have a valid unique identifier and a non-empty customer reference
//   - Items may be empty only while the status is Cart
//   - Address and payment method are required before leaving Cart
//   - The status history is append-only and its last entry always matches
//     the current status
//   - The total is derived from the item lines, never stored
//   - Once settled (Delivered, Completed, Cancelled) no item, address, or
//     payment mutation is permitted
//
// The struct uses private fields to keep its invariants behind validated
// methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerRef is the opaque customer identity, e.g. a phone number
	customerRef string

	// items is the ordered sequence of order lines
	items []Item

	// address is the delivery address; empty until collected
	address string

	// paymentMethod is how the order settles; PaymentUnknown until collected
	paymentMethod PaymentMethod

	// status is the current lifecycle state
	status Status

	// history is the append-only record of every status the order has held
	history []StatusChange

	// driverRef identifies the assigned driver; empty until assignment.
	// Written exclusively by the driver assignment step, exactly once.
	driverRef string

	// events holds lifecycle transitions not yet drained by TakeEvents
	events []LifecycleTransitioned

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new draft order in Cart status for the given customer.
// The history is seeded with the Cart entry.
func NewOrder(id kernel.UUID, customerRef string, now time.Time) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerRef == "" {
		return nil, errs.NewValueIsRequiredError("customer reference")
	}

	return &Order{
		id:            id,
		customerRef:   customerRef,
		status:        Cart,
		history:       []StatusChange{{Status: Cart, At: now, Note: "order drafted"}},
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence. It validates identity,
// status, and the consistency between status and driver assignment, but does
// not replay lifecycle rules: the stored state is trusted as the result of
// earlier validated transitions.
func RestoreOrder(
	id kernel.UUID,
	customerRef string,
	items []Item,
	address string,
	paymentMethod PaymentMethod,
	status Status,
	history []StatusChange,
	driverRef string,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerRef == "" {
		return nil, errs.NewValueIsRequiredError("customer reference")
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if driverRef != "" && !status.CanHoldDriver() {
		return nil, errs.NewValueIsInvalidError("driver assigned in status " + status.String())
	}
	if len(history) == 0 {
		return nil, errs.NewValueIsRequiredError("status history")
	}
	if history[len(history)-1].Status != status {
		return nil, errs.NewValueIsInvalidError("status history does not end at current status")
	}

	return &Order{
		id:            id,
		customerRef:   customerRef,
		items:         append([]Item(nil), items...),
		address:       address,
		paymentMethod: paymentMethod,
		status:        status,
		history:       append([]StatusChange(nil), history...),
		driverRef:     driverRef,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerRef returns the opaque customer identity the order belongs to.
func (o *Order) CustomerRef() string {
	return o.customerRef
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// Address returns the delivery address, empty if not yet collected.
func (o *Order) Address() string {
	return o.address
}

// PaymentMethod returns the selected payment method.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the append-only status history.
func (o *Order) History() []StatusChange {
	return append([]StatusChange(nil), o.history...)
}

// DriverRef returns the assigned driver reference, empty if unassigned.
func (o *Order) DriverRef() string {
	return o.driverRef
}

// Total returns the sum of unit price times quantity over all items. It is
// recomputed on every call so it can never drift from the item lines.
func (o *Order) Total() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// AddItem appends an order line. Legal only while the order is in Cart.
// A line with the same name as an existing one is merged by summing
// quantities, keeping the existing unit price.
func (o *Order) AddItem(item Item) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Cart {
		return NewInvalidOrderStateError("add_item", o.status)
	}

	for i, existing := range o.items {
		if existing.name == item.name {
			merged, err := NewItem(existing.name, existing.unitPrice, existing.quantity+item.quantity)
			if err != nil {
				return err
			}
			o.items[i] = merged
			return nil
		}
	}

	o.items = append(o.items, item)
	return nil
}

// RemoveItem deletes the order line with the given name. Legal only in Cart.
func (o *Order) RemoveItem(name string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Cart {
		return NewInvalidOrderStateError("remove_item", o.status)
	}

	for i, item := range o.items {
		if item.name == name {
			o.items = append(o.items[:i], o.items[i+1:]...)
			return nil
		}
	}

	return errs.NewObjectNotFoundError("item", name)
}

// SetAddress records the delivery address. Legal only in Cart.
func (o *Order) SetAddress(address string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Cart {
		return NewInvalidOrderStateError("set_address", o.status)
	}
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}

	o.address = address
	return nil
}

// SetPaymentMethod records how the order settles. Legal only in Cart.
func (o *Order) SetPaymentMethod(pm PaymentMethod) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Cart {
		return NewInvalidOrderStateError("set_payment", o.status)
	}
	if err := pm.Validate(); err != nil {
		return err
	}

	o.paymentMethod = pm
	return nil
}

// AssignDriver records the driver reference. The assignment is written
// exactly once, by the driver assignment step, and only after the restaurant
// has confirmed but before pickup.
func (o *Order) AssignDriver(driverRef string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if driverRef == "" {
		return errs.NewValueIsRequiredError("driver reference")
	}
	if o.driverRef != "" {
		return NewInvalidOrderStateError("assign_driver", o.status)
	}
	switch o.status {
	case Confirmed, Preparing, Ready:
		o.driverRef = driverRef
		return nil
	default:
		return NewInvalidOrderStateError("assign_driver", o.status)
	}
}

// Advance moves the order to target, which must be the immediate successor
// in the lifecycle ordering. Cancellation goes through Cancel instead so a
// refund decision is always produced.
//
// Leaving Cart requires a non-empty item list, an address, and a payment
// method; otherwise the advance fails with IncompleteOrderError. On success
// the history gains an entry and a LifecycleTransitioned event is recorded.
func (o *Order) Advance(target Status, note string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if o.status == Cart && target == Placed {
		if err := o.checkComplete(); err != nil {
			return err
		}
	}

	next, err := o.status.Advance(target)
	if err != nil {
		return err
	}

	o.applyTransition(next, note, now)
	return nil
}

// Cancel moves the order to Cancelled and computes the refund owed under the
// given policy: full at Placed or Confirmed, partial (total minus the
// preparation fee) at Preparing or Ready, nothing for a Cart draft. From
// PickedUp onward cancellation fails with LifecycleViolationError; terminal
// states fail with TerminalStateViolationError.
func (o *Order) Cancel(reason string, policy RefundPolicy, now time.Time) (RefundDecision, error) {
	if err := o.Validate(); err != nil {
		return RefundDecision{}, err
	}

	next, err := o.status.Advance(Cancelled)
	if err != nil {
		return RefundDecision{}, err
	}

	decision := decideRefund(o.status, o.Total(), policy)
	o.applyTransition(next, reason, now)
	return decision, nil
}

// TakeEvents drains and returns the lifecycle events recorded since the last
// call. The application layer publishes them to the notification fan-out
// after the surrounding transaction commits.
func (o *Order) TakeEvents() []LifecycleTransitioned {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) applyTransition(target Status, note string, now time.Time) {
	from := o.status
	o.status = target
	o.history = append(o.history, StatusChange{Status: target, At: now, Note: note})
	o.events = append(o.events, LifecycleTransitioned{
		OrderID: o.id,
		From:    from,
		To:      target,
		At:      now,
	})
}

// checkComplete verifies the Cart -> Placed completeness requirements.
func (o *Order) checkComplete() error {
	var missing []string
	if len(o.items) == 0 {
		missing = append(missing, "items")
	}
	if o.address == "" {
		missing = append(missing, "address")
	}
	if o.paymentMethod == PaymentUnknown {
		missing = append(missing, "payment method")
	}

	if len(missing) > 0 {
		return NewIncompleteOrderError(missing...)
	}
	return nil
}
