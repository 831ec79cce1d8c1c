package services

import (
	"context"
	"strconv"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"
)

// PostDeliveryAgent collects feedback on delivered orders and closes them
// out. A poor rating earns the caller a discount code for the next order.
type PostDeliveryAgent struct{}

// NewPostDeliveryAgent creates the post-delivery agent.
func NewPostDeliveryAgent() *PostDeliveryAgent {
	return &PostDeliveryAgent{}
}

// ID returns agent.PostDelivery.
func (a *PostDeliveryAgent) ID() agent.ID {
	return agent.PostDelivery
}

// Execute records feedback and completes the order once the caller has had
// their say.
func (a *PostDeliveryAgent) Execute(ctx context.Context, intent agent.Intent, tc *ToolContext) (Result, error) {
	switch intent {
	case agent.IntentFeedback:
		return a.feedback(tc)
	case agent.IntentGoodbye:
		return a.goodbye(tc)
	default:
		return Result{}, errs.NewValueIsInvalidError("intent " + intent.String())
	}
}

func (a *PostDeliveryAgent) feedback(tc *ToolContext) (Result, error) {
	rating, ok := parseRating(tc.Args["rating"])
	if !ok {
		return Result{Reply: "How would you rate your order, from 1 to 5?"}, nil
	}

	mutated, err := a.complete(tc, "feedback received")
	if err != nil {
		return Result{}, err
	}

	if rating <= 2 {
		return Result{
			Reply:        "I'm sorry the experience fell short. Here's code SAVE20 for 20% off your next order.",
			OrderMutated: mutated,
		}, nil
	}
	return Result{
		Reply:        "Thank you for the feedback! We're glad you enjoyed your order.",
		OrderMutated: mutated,
	}, nil
}

func (a *PostDeliveryAgent) goodbye(tc *ToolContext) (Result, error) {
	mutated, err := a.complete(tc, "call closed")
	if err != nil {
		return Result{}, err
	}
	return Result{Reply: "Thanks for ordering with us. Goodbye!", OrderMutated: mutated}, nil
}

// complete advances a delivered order to its final status. Orders in any
// other status are left alone: closing the call never disturbs an order
// still in flight.
func (a *PostDeliveryAgent) complete(tc *ToolContext, note string) (bool, error) {
	if tc.Order == nil || tc.Order.Status() != order.Delivered {
		return false, nil
	}
	if err := tc.Order.Advance(order.Completed, note, tc.Now); err != nil {
		return false, err
	}
	return true, nil
}

func parseRating(raw string) (int, bool) {
	rating, err := strconv.Atoi(raw)
	if err != nil || rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}
