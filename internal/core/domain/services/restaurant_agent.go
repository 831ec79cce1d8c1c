package services

import (
	"context"
	"fmt"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"
)

// RestaurantCoordinationAgent confirms placed orders with the partner
// restaurant and relays the preparation estimate to the caller.
type RestaurantCoordinationAgent struct {
	restaurants RestaurantDirectory
}

// NewRestaurantCoordinationAgent creates the restaurant coordination agent.
func NewRestaurantCoordinationAgent(restaurants RestaurantDirectory) *RestaurantCoordinationAgent {
	return &RestaurantCoordinationAgent{restaurants: restaurants}
}

// ID returns agent.RestaurantCoordination.
func (a *RestaurantCoordinationAgent) ID() agent.ID {
	return agent.RestaurantCoordination
}

// Execute confirms the order with the restaurant when it is still at Placed,
// or narrates the current status when confirmation already happened.
func (a *RestaurantCoordinationAgent) Execute(ctx context.Context, intent agent.Intent, tc *ToolContext) (Result, error) {
	if intent != agent.IntentConfirmOrder {
		return Result{}, errs.NewValueIsInvalidError("intent " + intent.String())
	}
	if tc.Order == nil {
		return Result{}, errs.NewValueIsRequiredError("order")
	}

	if tc.Order.Status() != order.Placed {
		return Result{Reply: statusNarration(tc.Order.Status())}, nil
	}

	restaurant, err := a.restaurants.Default(ctx)
	if err != nil {
		return Result{}, err
	}
	if !restaurant.Open {
		return Result{Reply: fmt.Sprintf("%s is closed right now, so I can't confirm your order yet. We'll notify you as soon as it opens.", restaurant.Name)}, nil
	}

	if err := tc.Order.Advance(order.Confirmed, "restaurant "+restaurant.ID+" accepted", tc.Now); err != nil {
		return Result{}, err
	}

	return Result{
		Reply: fmt.Sprintf("%s has confirmed your order and will have it ready in about %d minutes.",
			restaurant.Name, restaurant.AvgPrepMinutes),
		OrderMutated: true,
	}, nil
}
