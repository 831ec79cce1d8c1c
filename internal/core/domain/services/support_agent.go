package services

import (
	"context"
	"fmt"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"
)

// CustomerSupportAgent handles complaints, cancellations, and refund
// requests. It is also where the orchestrator parks intents no other
// reachable agent accepts.
type CustomerSupportAgent struct {
	refundPolicy order.RefundPolicy
}

// NewCustomerSupportAgent creates the support agent with the refund policy
// applied to cancellations.
func NewCustomerSupportAgent(refundPolicy order.RefundPolicy) *CustomerSupportAgent {
	return &CustomerSupportAgent{refundPolicy: refundPolicy}
}

// ID returns agent.CustomerSupport.
func (a *CustomerSupportAgent) ID() agent.ID {
	return agent.CustomerSupport
}

// Execute dispatches over the support intents. Cancellation and refund both
// resolve through Order.Cancel so the refund decision always matches the
// status the order held at cancellation time.
func (a *CustomerSupportAgent) Execute(ctx context.Context, intent agent.Intent, tc *ToolContext) (Result, error) {
	switch intent {
	case agent.IntentComplaint:
		return a.complaint(tc), nil
	case agent.IntentCancelOrder, agent.IntentRefundRequest:
		return a.cancel(ctx, tc)
	case agent.IntentTrackOrder:
		return a.track(ctx, tc)
	case agent.IntentGoodbye:
		return Result{Reply: "Thanks for calling. Have a great day!"}, nil
	default:
		return Result{}, errs.NewValueIsInvalidError("intent " + intent.String())
	}
}

func (a *CustomerSupportAgent) complaint(tc *ToolContext) Result {
	detail := tc.Args["detail"]
	if detail == "" {
		return Result{Reply: "I'm sorry to hear that. Could you tell me a bit more about what went wrong?"}
	}
	return Result{Reply: "I'm really sorry about that. I've logged your complaint and our team will follow up with you shortly."}
}

func (a *CustomerSupportAgent) cancel(ctx context.Context, tc *ToolContext) (Result, error) {
	target := tc.Order
	if target == nil {
		latest, err := latestOrder(ctx, tc)
		if err != nil {
			return Result{}, err
		}
		if latest == nil {
			return Result{Reply: "I couldn't find an order to cancel on your account."}, nil
		}
		target = latest
		tc.AdoptOrder(latest)
	}

	reason := tc.Args["reason"]
	if reason == "" {
		reason = "cancelled on caller request"
	}

	decision, err := target.Cancel(reason, a.refundPolicy, tc.Now)
	if err != nil {
		return Result{}, err
	}

	return Result{Reply: refundReply(decision), OrderMutated: true}, nil
}

func (a *CustomerSupportAgent) track(ctx context.Context, tc *ToolContext) (Result, error) {
	if tc.Order != nil {
		return Result{Reply: statusNarration(tc.Order.Status())}, nil
	}
	latest, err := latestOrder(ctx, tc)
	if err != nil {
		return Result{}, err
	}
	if latest == nil {
		return Result{Reply: "I don't see any orders on your account. Would you like to place one?"}, nil
	}
	return Result{Reply: statusNarration(latest.Status())}, nil
}

func refundReply(decision order.RefundDecision) string {
	switch decision.Kind {
	case order.RefundFull:
		return fmt.Sprintf("Your order has been cancelled. A full refund of %s is on its way.", decision.Amount)
	case order.RefundPartial:
		return fmt.Sprintf("Your order has been cancelled. Since the restaurant already started preparing it, a partial refund of %s is on its way.", decision.Amount)
	default:
		return "Your order has been cancelled."
	}
}
