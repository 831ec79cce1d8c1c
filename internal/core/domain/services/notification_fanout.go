package services

import (
	"errors"
	"fmt"

	"voiceorder/internal/core/domain/model/order"
)

// Collaborator is an external party notified when an order crosses a
// lifecycle milestone.
type Collaborator string

const (
	CollaboratorRestaurant   Collaborator = "restaurant"
	CollaboratorDriverPool   Collaborator = "driver_pool"
	CollaboratorCustomer     Collaborator = "customer"
	CollaboratorPostDelivery Collaborator = "post_delivery"
)

// ErrNoRecipients is the unwrap target for lifecycle events that reached
// the fanout without a configured recipient row.
var ErrNoRecipients = errors.New("no notification recipients")

// NoRecipientsError reports a lifecycle event with no fanout row. It points
// at a configuration gap, not a caller mistake.
type NoRecipientsError struct {
	Status order.Status
}

// NewNoRecipientsError creates a NoRecipientsError for the given status.
func NewNoRecipientsError(status order.Status) *NoRecipientsError {
	return &NoRecipientsError{Status: status}
}

func (e *NoRecipientsError) Error() string {
	return fmt.Sprintf("%s: no fanout row for status %s", ErrNoRecipients, e.Status)
}

func (e *NoRecipientsError) Unwrap() error {
	return ErrNoRecipients
}

// Fanout maps lifecycle milestones to the collaborators that must hear
// about them. The table is fixed: notifications fire on milestone
// transitions only, never on every status change.
type Fanout struct {
	rows map[order.Status][]Collaborator
}

// NewFanout builds the production fanout table.
func NewFanout() *Fanout {
	return &Fanout{
		rows: map[order.Status][]Collaborator{
			order.Placed:    {CollaboratorRestaurant},
			order.Confirmed: {CollaboratorDriverPool},
			order.PickedUp:  {CollaboratorCustomer},
			order.InTransit: {CollaboratorCustomer},
			order.Delivered: {CollaboratorPostDelivery},
		},
	}
}

// Notifies reports whether the given status is a notification milestone.
func (f *Fanout) Notifies(status order.Status) bool {
	_, ok := f.rows[status]
	return ok
}

// Recipients returns the collaborators to notify for the event's target
// status. Events for non-milestone statuses return a NoRecipientsError.
func (f *Fanout) Recipients(event order.LifecycleTransitioned) ([]Collaborator, error) {
	recipients, ok := f.rows[event.To]
	if !ok {
		return nil, NewNoRecipientsError(event.To)
	}
	out := make([]Collaborator, len(recipients))
	copy(out, recipients)
	return out, nil
}
