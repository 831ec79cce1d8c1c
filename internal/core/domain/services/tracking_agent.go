package services

import (
	"context"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/pkg/errs"
)

// DeliveryTrackingAgent answers "where is my order" questions by narrating
// the order's current lifecycle status.
type DeliveryTrackingAgent struct{}

// NewDeliveryTrackingAgent creates the delivery tracking agent.
func NewDeliveryTrackingAgent() *DeliveryTrackingAgent {
	return &DeliveryTrackingAgent{}
}

// ID returns agent.DeliveryTracking.
func (a *DeliveryTrackingAgent) ID() agent.ID {
	return agent.DeliveryTracking
}

// Execute narrates the status of the session's order. When the session has
// no order, it falls back to the caller's most recent order on record.
func (a *DeliveryTrackingAgent) Execute(ctx context.Context, intent agent.Intent, tc *ToolContext) (Result, error) {
	switch intent {
	case agent.IntentTrackOrder, agent.IntentDriverETA:
	default:
		return Result{}, errs.NewValueIsInvalidError("intent " + intent.String())
	}

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
