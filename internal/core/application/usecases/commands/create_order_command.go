package commands

import (
	"errors"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to open a draft order outside the
// conversational flow, for callers resuming an earlier call or for
// operational tooling. Items may be supplied up front; the draft stays in
// cart status either way.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, "caller_42", items)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	customerRef string
	items       []order.Item

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to open a draft order with the
// given initial items. Validates that the order ID is valid and the
// customer reference is not empty; an empty item list is allowed.
func NewCreateOrderCommand(orderID kernel.UUID, customerRef string, items []order.Item) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerRef(customerRef),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	orderCommand.setItems(items)

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerRef returns the customer the order belongs to.
func (c CreateOrderCommand) CustomerRef() string {
	return c.customerRef
}

// Items returns the initial items of the draft order.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerRef(customerRef string) error {
	if customerRef == "" {
		return ErrCustomerRefIsRequired
	}

	c.customerRef = customerRef
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) {
	c.items = make([]order.Item, len(items))
	copy(c.items, items)
}
