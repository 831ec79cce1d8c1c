package commands

import (
	"context"
	"log/slog"
	"time"

	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"
)

// AdvanceOrderCommandHandler moves orders along the lifecycle on behalf of
// restaurant and driver integrations. The transition, its history entry,
// and the derived state commit atomically; fanout notifications follow the
// commit.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	fanout     *services.Fanout
	sink       NotificationSink
	logger     *slog.Logger
}

// NewAdvanceOrderCommandHandler creates a handler for lifecycle advancement.
func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory, sink NotificationSink, logger *slog.Logger) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		fanout:     services.NewFanout(),
		sink:       sink,
		logger:     logger,
	}
}

// Handle processes the advancement command.
// Returns the domain's typed transition errors unchanged so the transport
// layer can map them to proper status codes.
func (h *AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) error {
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
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Advance(cmd.Target(), cmd.Note(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notify(ctx, aggregate.TakeEvents())
	return nil
}

func (h *AdvanceOrderCommandHandler) notify(ctx context.Context, events []order.LifecycleTransitioned) {
	for _, event := range events {
		recipients, err := h.fanout.Recipients(event)
		if err != nil {
			h.logger.Debug("lifecycle event without recipients", "status", event.To.String(), "error", err)
			continue
		}
		if err := h.sink.Publish(ctx, event, recipients); err != nil {
			h.logger.Error("lifecycle notification failed",
				"order_id", event.OrderID.String(),
				"status", event.To.String(),
				"error", err,
			)
		}
	}
}
