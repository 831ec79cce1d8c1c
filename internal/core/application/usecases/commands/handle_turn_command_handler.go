package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/model/session"
	"voiceorder/internal/core/domain/services"
	"voiceorder/internal/core/ports"
)

// TurnResult is what the caller hears back after one processed turn.
type TurnResult struct {
	Reply       string
	ActiveAgent agent.ID
	OrderID     *kernel.UUID
}

// cartIntents are the intents that may start a brand-new draft order when
// the session does not reference one yet.
var cartIntents = map[agent.Intent]struct{}{
	agent.IntentAddItem:       {},
	agent.IntentRemoveItem:    {},
	agent.IntentMenuInquiry:   {},
	agent.IntentProvideAddr:   {},
	agent.IntentChoosePayment: {},
	agent.IntentConfirmOrder:  {},
}

// HandleTurnCommandHandler processes one caller utterance end to end:
// classify, route, execute, persist, notify. Turns within one session are
// serialized; turns across sessions run concurrently.
type HandleTurnCommandHandler struct {
	uowFactory   OrderUoWFactory
	sessionStore ports.SessionStore
	orchestrator *services.Orchestrator
	classifier   IntentClassifier
	fanout       *services.Fanout
	sink         NotificationSink
	logger       *slog.Logger

	sessionLocks *sync.Map
}

// NewHandleTurnCommandHandler creates the turn handler with all of its
// collaborators wired in.
func NewHandleTurnCommandHandler(
	uowFactory OrderUoWFactory,
	sessionStore ports.SessionStore,
	orchestrator *services.Orchestrator,
	classifier IntentClassifier,
	sink NotificationSink,
	logger *slog.Logger,
) HandleTurnCommandHandler {
	return HandleTurnCommandHandler{
		uowFactory:   uowFactory,
		sessionStore: sessionStore,
		orchestrator: orchestrator,
		classifier:   classifier,
		fanout:       services.NewFanout(),
		sink:         sink,
		logger:       logger,
		sessionLocks: &sync.Map{},
	}
}

// Handle processes the turn. The order mutation and its history entry
// commit in one transaction before any notification is published; expired
// sessions are evicted and the turn rejected.
func (h *HandleTurnCommandHandler) Handle(ctx context.Context, cmd HandleTurnCommand) (TurnResult, error) {
	if err := cmd.Validate(); err != nil {
		return TurnResult{}, err
	}

	unlock := h.lockSession(cmd.SessionID())
	defer unlock()

	sess, err := h.sessionStore.Get(ctx, cmd.SessionID())
	if err != nil {
		return TurnResult{}, err
	}

	now := time.Now().UTC()

	// The upstream voice pipeline may deliver the turn already classified;
	// the local classifier only runs when no tag was supplied.
	intent := cmd.Intent()
	args := map[string]string{"text": cmd.Utterance()}
	if intent == agent.IntentUnknown {
		intent, args = h.classifier.Classify(cmd.Utterance())
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return TurnResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	draft, created, err := h.resolveOrder(ctx, orderRepo, sess, intent, now)
	if err != nil {
		return TurnResult{}, err
	}

	tc := &services.ToolContext{
		Order:       draft,
		CustomerRef: sess.CustomerRef(),
		Args:        args,
		Now:         now,
		History:     orderRepo,
	}
	result, err := h.orchestrator.Reduce(ctx, sess, services.Turn{
		Utterance: cmd.Utterance(),
		Intent:    intent,
		Context:   tc,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			_ = h.sessionStore.Delete(ctx, sess.ID())
		}
		return TurnResult{}, err
	}

	// An agent may have adopted an order the session never referenced
	// (the caller's latest order on record); persist what it touched.
	target := tc.Order

	switch {
	case created:
		err = orderRepo.Add(ctx, draft)
	case result.OrderMutated && target != nil:
		err = orderRepo.Update(ctx, target)
	}
	if err != nil {
		return TurnResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TurnResult{}, err
	}

	if target != nil {
		h.publish(ctx, target.TakeEvents())
	}

	if err = h.sessionStore.Update(ctx, sess); err != nil {
		return TurnResult{}, err
	}

	turnResult := TurnResult{
		Reply:       result.Reply,
		ActiveAgent: sess.ActiveAgent(),
	}
	if target != nil {
		id := target.ID()
		turnResult.OrderID = &id
	}
	return turnResult, nil
}

// resolveOrder loads the session's draft order, creating a fresh one when a
// cart-building intent arrives on a session that has no order yet.
func (h *HandleTurnCommandHandler) resolveOrder(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	sess *session.Session,
	intent agent.Intent,
	now time.Time,
) (draft *order.Order, created bool, err error) {
	if orderID := sess.DraftOrderID(); orderID != nil {
		draft, err = orderRepo.Get(ctx, *orderID)
		return draft, false, err
	}

	if _, ok := cartIntents[intent]; !ok {
		return nil, false, nil
	}

	draft, err = order.NewOrder(kernel.NewUUID(), sess.CustomerRef(), now)
	if err != nil {
		return nil, false, err
	}
	if err = sess.AttachDraftOrder(draft.ID()); err != nil {
		return nil, false, err
	}
	return draft, true, nil
}

// publish fans lifecycle events out after commit. Failures are logged and
// swallowed: the transition already happened and the caller already has a
// reply.
func (h *HandleTurnCommandHandler) publish(ctx context.Context, events []order.LifecycleTransitioned) {
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

func (h *HandleTurnCommandHandler) lockSession(sessionID kernel.UUID) func() {
	lock, _ := h.sessionLocks.LoadOrStore(sessionID.String(), &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
