package commands

import (
	"errors"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand represents a request to move an order one step along
// its lifecycle. Restaurant and driver facing integrations use it to report
// progress: preparing, ready, picked up, in transit, delivered.
//
// Example:
//
//	cmd, err := NewAdvanceOrderCommand(orderID, order.Preparing, "kitchen started")
//	if err != nil {
//	    return fmt.Errorf("invalid advance: %w", err)
//	}
//
//	handler := NewAdvanceOrderCommandHandler(uowFactory, sink, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to advance order: %w", err)
//	}
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	note    string

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand creates a command to advance the given order to
// the target status. The note is recorded on the order's status history.
func NewAdvanceOrderCommand(orderID kernel.UUID, target order.Status, note string) (AdvanceOrderCommand, error) {
	advanceCommand := AdvanceOrderCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		advanceCommand.setOrderID(orderID),
		advanceCommand.setTarget(target),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return advanceCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdvanceOrderCommandIsNotConstructed if validation fails.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the status the order should advance to.
func (c AdvanceOrderCommand) Target() order.Status {
	return c.target
}

// Note returns the history annotation for the transition.
func (c AdvanceOrderCommand) Note() string {
	return c.note
}

func (c *AdvanceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AdvanceOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
