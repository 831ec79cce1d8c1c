package services

import (
	"context"
	"fmt"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/pkg/errs"
)

// DriverAssignmentAgent picks a driver from the pool for confirmed orders
// and answers pickup-ETA questions.
type DriverAssignmentAgent struct {
	drivers DriverDirectory
}

// NewDriverAssignmentAgent creates the driver assignment agent.
func NewDriverAssignmentAgent(drivers DriverDirectory) *DriverAssignmentAgent {
	return &DriverAssignmentAgent{drivers: drivers}
}

// ID returns agent.DriverAssignment.
func (a *DriverAssignmentAgent) ID() agent.ID {
	return agent.DriverAssignment
}

// Execute assigns the best available driver when the order has none yet,
// and reports the assigned driver otherwise.
func (a *DriverAssignmentAgent) Execute(ctx context.Context, intent agent.Intent, tc *ToolContext) (Result, error) {
	if intent != agent.IntentDriverETA {
		return Result{}, errs.NewValueIsInvalidError("intent " + intent.String())
	}
	if tc.Order == nil {
		return Result{}, errs.NewValueIsRequiredError("order")
	}

	if ref := tc.Order.DriverRef(); ref != "" {
		return Result{Reply: fmt.Sprintf("Driver %s is already on your order. %s", ref, statusNarration(tc.Order.Status()))}, nil
	}
	if !tc.Order.Status().CanHoldDriver() {
		return Result{Reply: "Your order isn't ready for driver assignment yet. " + statusNarration(tc.Order.Status())}, nil
	}

	available, err := a.drivers.Available(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(available) == 0 {
		return Result{Reply: "All our drivers are busy right now. We'll assign one to your order as soon as someone frees up."}, nil
	}

	best := available[0]
	for _, d := range available[1:] {
		if d.Rating > best.Rating {
			best = d
		}
	}

	if err := tc.Order.AssignDriver(best.ID); err != nil {
		return Result{}, err
	}

	return Result{
		Reply: fmt.Sprintf("%s (%s, rated %.1f) will deliver your order and is heading to the restaurant now.",
			best.Name, best.Vehicle, best.Rating),
		OrderMutated: true,
	}, nil
}
