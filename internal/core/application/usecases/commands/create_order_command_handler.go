package commands

import (
	"context"
	"time"

	"voiceorder/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// New orders start in cart status with the supplied items and no address or
// payment method.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Uses a transaction to ensure the order is properly persisted or rolled
// back on error.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	draft, err := order.NewOrder(cmd.OrderID(), cmd.CustomerRef(), time.Now().UTC())
	if err != nil {
		return err
	}
	for _, item := range cmd.Items() {
		if err = draft.AddItem(item); err != nil {
			return err
		}
	}

	if err = orderRepo.Add(ctx, draft); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
