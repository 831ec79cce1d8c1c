package order

import (
	"voiceorder/internal/core/domain/model/kernel"
)

// RefundKind classifies the refund owed on cancellation.
type RefundKind int

const (
	// RefundNone applies when nothing was charged: cancelling a Cart draft.
	RefundNone RefundKind = iota

	// RefundFull returns the whole order total: cancellation at Placed or
	// Confirmed, before the kitchen starts.
	RefundFull

	// RefundPartial returns the total minus the configured preparation fee:
	// cancellation at Preparing or Ready.
	RefundPartial
)

func (k RefundKind) String() string {
	switch k {
	case RefundFull:
		return "full"
	case RefundPartial:
		return "partial"
	default:
		return "none"
	}
}

// RefundPolicy carries the configured cancellation terms. The fee values come
// from configuration; the branching over lifecycle states is fixed by the
// machine's contract.
type RefundPolicy struct {
	preparationFee kernel.Money
}

// NewRefundPolicy creates a policy with the given preparation fee deduction
// for cancellations after the kitchen has started.
func NewRefundPolicy(preparationFee kernel.Money) RefundPolicy {
	return RefundPolicy{preparationFee: preparationFee}
}

// PreparationFee returns the configured deduction for partial refunds.
func (p RefundPolicy) PreparationFee() kernel.Money {
	return p.preparationFee
}

// RefundDecision is the outcome of a cancellation: what kind of refund is
// owed and the exact amount.
type RefundDecision struct {
	Kind   RefundKind
	Amount kernel.Money
}

// decideRefund computes the refund owed for cancelling at the given status.
// The caller has already established that status is cancellable.
func decideRefund(status Status, total kernel.Money, policy RefundPolicy) RefundDecision {
	switch status {
	case Placed, Confirmed:
		return RefundDecision{Kind: RefundFull, Amount: total}
	case Preparing, Ready:
		return RefundDecision{Kind: RefundPartial, Amount: total.Sub(policy.PreparationFee())}
	default:
		return RefundDecision{Kind: RefundNone, Amount: kernel.ZeroMoney()}
	}
}
