// Package agent defines the closed set of conversational agents, the intent
// tags they handle, and the capability table that constrains handoffs
// between them during a call.
package agent

import (
	"fmt"

	"voiceorder/internal/pkg/errs"
)

// ID identifies one of the six conversational agents. The set is closed:
// every session's active agent and every handoff target must be one of
// these values.
type ID string

const (
	// CustomerOrder takes the order: menu, items, address, payment,
	// placement. It is the agent every session starts with.
	CustomerOrder ID = "customer_order"

	// RestaurantCoordination confirms placed orders with the restaurant and
	// relays preparation estimates.
	RestaurantCoordination ID = "restaurant_coordination"

	// DriverAssignment picks a driver from the pool for confirmed orders.
	DriverAssignment ID = "driver_assignment"

	// DeliveryTracking answers "where is my order" with status narration.
	DeliveryTracking ID = "delivery_tracking"

	// CustomerSupport handles complaints, inquiries, refunds, and
	// cancellations. It is also the sink for intents no other reachable
	// agent accepts.
	CustomerSupport ID = "customer_support"

	// PostDelivery collects feedback and closes out delivered orders.
	PostDelivery ID = "post_delivery"
)

// AllIDs returns every agent identifier in the closed set.
func AllIDs() []ID {
	return []ID{
		CustomerOrder,
		RestaurantCoordination,
		DriverAssignment,
		DeliveryTracking,
		CustomerSupport,
		PostDelivery,
	}
}

// Validate checks that the ID belongs to the closed agent set.
func (id ID) Validate() error {
	for _, known := range AllIDs() {
		if id == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause(
		"agent id",
		fmt.Errorf("%q is not a registered agent", string(id)),
	)
}

func (id ID) String() string {
	return string(id)
}

// Intent is the tag a caller turn is classified into by the NLU
// collaborator. The core never computes intents; it only routes them.
type Intent string

const (
	IntentAddItem       Intent = "add_item"
	IntentRemoveItem    Intent = "remove_item"
	IntentMenuInquiry   Intent = "menu_inquiry"
	IntentProvideAddr   Intent = "provide_address"
	IntentChoosePayment Intent = "choose_payment"
	IntentConfirmOrder  Intent = "confirm_order"
	IntentCancelOrder   Intent = "cancel_order"
	IntentTrackOrder    Intent = "track_order"
	IntentDriverETA     Intent = "driver_eta"
	IntentComplaint     Intent = "complaint"
	IntentRefundRequest Intent = "refund_request"
	IntentFeedback      Intent = "feedback"
	IntentGoodbye       Intent = "goodbye"

	// IntentUnknown marks a turn the classifier could not tag. It is never
	// a member of any agent's accepted set, so it always produces a
	// clarification reply.
	IntentUnknown Intent = "unknown"
)

func (i Intent) String() string {
	return string(i)
}

// AllIntents returns every tag a classified turn may carry, IntentUnknown
// included.
func AllIntents() []Intent {
	return []Intent{
		IntentAddItem, IntentRemoveItem, IntentMenuInquiry, IntentProvideAddr,
		IntentChoosePayment, IntentConfirmOrder, IntentCancelOrder,
		IntentTrackOrder, IntentDriverETA, IntentComplaint,
		IntentRefundRequest, IntentFeedback, IntentGoodbye, IntentUnknown,
	}
}

// IntentFromString parses an upstream-supplied intent tag.
func IntentFromString(s string) (Intent, error) {
	for _, intent := range AllIntents() {
		if string(intent) == s {
			return intent, nil
		}
	}
	return "", errs.NewValueIsInvalidErrorWithCause(
		"intent",
		fmt.Errorf("%q is not a known intent tag", s),
	)
}

// IntentSet is an immutable membership set of intent tags.
type IntentSet map[Intent]struct{}

// NewIntentSet builds a set from the given tags.
func NewIntentSet(intents ...Intent) IntentSet {
	set := make(IntentSet, len(intents))
	for _, intent := range intents {
		set[intent] = struct{}{}
	}
	return set
}

// Contains reports membership.
func (s IntentSet) Contains(intent Intent) bool {
	_, ok := s[intent]
	return ok
}
