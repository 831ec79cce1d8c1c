// Package order provides the Order aggregate root and its lifecycle state
// machine for the voice ordering system.
//
// The package includes:
//   - Order: the aggregate root owning items, address, payment method, driver
//     assignment, and the append-only status history
//   - Status: a state machine over the fixed delivery lifecycle
//     Cart -> Placed -> Confirmed -> Preparing -> Ready -> PickedUp ->
//     InTransit -> Delivered -> Completed, with a Cancelled side branch
//   - RefundPolicy / RefundDecision: the cancellation refund contract
//
// Key business rules:
//   - Item, address, and payment mutations are legal only while the order is
//     in Cart
//   - Advancing skips no states; Cancelled is reachable from any state before
//     PickedUp
//   - Terminal states (Delivered, Completed, Cancelled) reject all further
//     mutation
//   - The total is always derived from the item lines, never stored
//
// Every successful transition appends to the status history and records a
// LifecycleTransitioned event, drained by the application layer for
// notification fan-out after commit.
package order
