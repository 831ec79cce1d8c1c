package agent

import (
	"fmt"

	"voiceorder/internal/pkg/errs"
)

// Capability declares what one agent can do: the intents it resolves in
// place and the agents it may hand the call off to. Handoff to an agent
// outside HandoffTargets is a contract violation, not a runtime option.
type Capability struct {
	AgentID        ID
	Accepted       IntentSet
	HandoffTargets []ID
}

// CanHandOffTo reports whether target is in the declared handoff set.
func (c Capability) CanHandOffTo(target ID) bool {
	for _, t := range c.HandoffTargets {
		if t == target {
			return true
		}
	}
	return false
}

// Registry is the static capability table: agent identifier to declared
// capability. It is built once at composition time and read concurrently by
// every session.
type Registry struct {
	capabilities map[ID]Capability
}

// NewRegistry builds a registry from the given capabilities and validates
// closure: every declared handoff target must itself be registered.
func NewRegistry(capabilities ...Capability) (*Registry, error) {
	r := &Registry{capabilities: make(map[ID]Capability, len(capabilities))}
	for _, c := range capabilities {
		if err := c.AgentID.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.capabilities[c.AgentID]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"capability",
				fmt.Errorf("agent %s registered twice", c.AgentID),
			)
		}
		r.capabilities[c.AgentID] = c
	}

	for _, c := range r.capabilities {
		for _, target := range c.HandoffTargets {
			if _, ok := r.capabilities[target]; !ok {
				return nil, errs.NewValueIsInvalidErrorWithCause(
					"capability",
					fmt.Errorf("agent %s declares handoff to unregistered agent %s", c.AgentID, target),
				)
			}
		}
	}

	return r, nil
}

// Lookup returns the capability for the given agent.
func (r *Registry) Lookup(id ID) (Capability, error) {
	c, ok := r.capabilities[id]
	if !ok {
		return Capability{}, errs.NewObjectNotFoundError("agent", string(id))
	}
	return c, nil
}

// Contains reports whether the agent is registered.
func (r *Registry) Contains(id ID) bool {
	_, ok := r.capabilities[id]
	return ok
}

// DefaultRegistry encodes the production handoff graph.
//
// The order-taking agent is the session entry point and can reach the
// notification, tracking, and support agents. Restaurant coordination hands
// on to driver assignment once confirmed; every agent can fall back to
// customer support, which accepts the widest intent set and serves as the
// sink for otherwise-unroutable requests.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Capability{
			AgentID: CustomerOrder,
			Accepted: NewIntentSet(
				IntentAddItem, IntentRemoveItem, IntentMenuInquiry,
				IntentProvideAddr, IntentChoosePayment, IntentConfirmOrder,
			),
			HandoffTargets: []ID{RestaurantCoordination, DeliveryTracking, CustomerSupport},
		},
		Capability{
			AgentID:        RestaurantCoordination,
			Accepted:       NewIntentSet(IntentConfirmOrder),
			HandoffTargets: []ID{DriverAssignment, CustomerSupport},
		},
		Capability{
			AgentID:        DriverAssignment,
			Accepted:       NewIntentSet(IntentDriverETA),
			HandoffTargets: []ID{DeliveryTracking, CustomerSupport},
		},
		Capability{
			AgentID:        DeliveryTracking,
			Accepted:       NewIntentSet(IntentTrackOrder, IntentDriverETA),
			HandoffTargets: []ID{CustomerSupport, PostDelivery},
		},
		Capability{
			AgentID: CustomerSupport,
			Accepted: NewIntentSet(
				IntentComplaint, IntentRefundRequest, IntentCancelOrder,
				IntentTrackOrder, IntentGoodbye,
			),
			HandoffTargets: []ID{DeliveryTracking, PostDelivery, CustomerOrder},
		},
		Capability{
			AgentID:        PostDelivery,
			Accepted:       NewIntentSet(IntentFeedback, IntentGoodbye),
			HandoffTargets: []ID{CustomerSupport},
		},
	)
	if err != nil {
		// The table above is static; a closure failure is a programming error.
		panic(err)
	}
	return r
}
