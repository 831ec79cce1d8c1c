package commands

import (
	"context"
	"time"

	"voiceorder/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels orders and computes the refund owed.
// Cancellation is only possible before pickup; the refund decision is made
// against the status the order held at cancellation time, atomically with
// the transition itself.
type CancelOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	refundPolicy order.RefundPolicy
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, refundPolicy order.RefundPolicy) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory:   uowFactory,
		refundPolicy: refundPolicy,
	}
}

// Handle processes the cancellation command and returns the refund decision.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (order.RefundDecision, error) {
	if err := cmd.Validate(); err != nil {
		return order.RefundDecision{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.RefundDecision{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.RefundDecision{}, err
	}

	decision, err := aggregate.Cancel(cmd.Reason(), h.refundPolicy, time.Now().UTC())
	if err != nil {
		return order.RefundDecision{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return order.RefundDecision{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.RefundDecision{}, err
	}

	return decision, nil
}
