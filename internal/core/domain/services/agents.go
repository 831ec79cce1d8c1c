package services

import (
	"context"
	"time"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/order"
)

// ToolContext carries everything an agent may touch while executing one
// tool call: the order the session references (nil if none), the caller
// identity, the structured arguments extracted by the NLU collaborator, and
// the turn timestamp. History is bound per-turn to the repository of the
// surrounding transaction.
type ToolContext struct {
	Order       *order.Order
	CustomerRef string
	Args        map[string]string
	Now         time.Time
	History     OrderHistory

	// Summary is the condensed session context replayed to an agent that
	// receives the turn via handoff. Empty when the active agent kept it.
	Summary string
}

// AdoptOrder binds an order resolved outside the session draft (for example
// the caller's latest order on record) so the surrounding command persists
// and publishes for the order the agent actually touched.
func (tc *ToolContext) AdoptOrder(o *order.Order) {
	tc.Order = o
}

// Result is the outcome of one successfully executed tool call.
type Result struct {
	// Reply is the text to speak back to the caller.
	Reply string

	// OrderMutated signals the surrounding command to persist the order.
	OrderMutated bool
}

// Agent is the single polymorphic capability interface all six
// conversational agents implement. Which intents reach an agent is decided
// by the Registry; Execute assumes the intent is one the agent accepts.
//
// Execute is atomic with respect to the order aggregate: it either returns
// a Result with the mutation fully applied, or an error with the order
// untouched.
type Agent interface {
	ID() agent.ID
	Execute(ctx context.Context, intent agent.Intent, tc *ToolContext) (Result, error)
}

// statusNarrations maps each in-flight status to the line spoken when a
// caller asks where the order is.
func statusNarration(status order.Status) string {
	switch status {
	case order.Cart:
		return "Your order has not been placed yet. Shall we finish it?"
	case order.Placed:
		return "Your order has been placed and is being confirmed."
	case order.Confirmed:
		return "Your order is confirmed and will be prepared shortly."
	case order.Preparing:
		return "Your order is being prepared at the restaurant."
	case order.Ready:
		return "Your order is ready and waiting for driver pickup."
	case order.PickedUp:
		return "The driver has picked up your order and is on the way."
	case order.InTransit:
		return "Your order is on the way! Expected delivery soon."
	case order.Delivered:
		return "Your order has been delivered. Enjoy your meal!"
	case order.Completed:
		return "Your order is complete. Thank you for ordering with us."
	case order.Cancelled:
		return "That order was cancelled."
	default:
		return "I could not find the status of your order."
	}
}

// latestOrder fetches the caller's most recently touched order, or nil when
// the caller has no orders. Used when a session carries no draft order.
func latestOrder(ctx context.Context, tc *ToolContext) (*order.Order, error) {
	if tc.History == nil {
		return nil, nil
	}
	orders, err := tc.History.GetByCustomer(ctx, tc.CustomerRef)
	if err != nil {
		return nil, err
	}

	var latest *order.Order
	var latestAt time.Time
	for _, o := range orders {
		history := o.History()
		at := history[len(history)-1].At
		if latest == nil || at.After(latestAt) {
			latest, latestAt = o, at
		}
	}
	return latest, nil
}
