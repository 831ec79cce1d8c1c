package order

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order lifecycle taxonomy. Callers classify typed
// failures with errors.Is against these values.
var (
	// ErrInvalidTransition is the unwrap target for transitions that skip a
	// state or move backwards in the lifecycle ordering.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrTerminalStateViolation is the unwrap target for any mutation
	// attempted on an order in a terminal state.
	ErrTerminalStateViolation = errors.New("terminal state violation")

	// ErrIncompleteOrder is the unwrap target for Cart -> Placed attempts on
	// an order missing items, address, or payment method.
	ErrIncompleteOrder = errors.New("incomplete order")

	// ErrInvalidOrderState is the unwrap target for tool calls executed
	// against the wrong lifecycle state, e.g. adding items after placement.
	ErrInvalidOrderState = errors.New("invalid order state")

	// ErrLifecycleViolation is the unwrap target for cancellation attempts
	// once the order has been picked up. A refund workflow is the only
	// remedy at that point.
	ErrLifecycleViolation = errors.New("lifecycle violation")
)

// InvalidTransitionError reports a status advance to a target that is not the
// immediate successor of the current status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given pair.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot advance directly to %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// TerminalStateViolationError reports a mutation attempted on an order whose
// status is terminal.
type TerminalStateViolationError struct {
	Status Status
}

// NewTerminalStateViolationError creates a TerminalStateViolationError for the given status.
func NewTerminalStateViolationError(status Status) *TerminalStateViolationError {
	return &TerminalStateViolationError{Status: status}
}

func (e *TerminalStateViolationError) Error() string {
	return fmt.Sprintf("%s: order is already %s", ErrTerminalStateViolation, e.Status)
}

func (e *TerminalStateViolationError) Unwrap() error {
	return ErrTerminalStateViolation
}

// IncompleteOrderError reports a placement attempt on an order that is not
// ready to leave Cart. Missing lists the absent requirements.
type IncompleteOrderError struct {
	Missing []string
}

// NewIncompleteOrderError creates an IncompleteOrderError naming each missing requirement.
func NewIncompleteOrderError(missing ...string) *IncompleteOrderError {
	return &IncompleteOrderError{Missing: missing}
}

func (e *IncompleteOrderError) Error() string {
	msg := ErrIncompleteOrder.Error()
	for i, m := range e.Missing {
		if i == 0 {
			msg += ": missing " + m
		} else {
			msg += ", " + m
		}
	}
	return msg
}

func (e *IncompleteOrderError) Unwrap() error {
	return ErrIncompleteOrder
}

// InvalidOrderStateError reports a tool call that is not valid for the
// order's current lifecycle state.
type InvalidOrderStateError struct {
	Operation string
	Status    Status
}

// NewInvalidOrderStateError creates an InvalidOrderStateError for the given operation and status.
func NewInvalidOrderStateError(operation string, status Status) *InvalidOrderStateError {
	return &InvalidOrderStateError{Operation: operation, Status: status}
}

func (e *InvalidOrderStateError) Error() string {
	return fmt.Sprintf("%s: %s is not allowed while order is %s", ErrInvalidOrderState, e.Operation, e.Status)
}

func (e *InvalidOrderStateError) Unwrap() error {
	return ErrInvalidOrderState
}

// LifecycleViolationError reports a cancellation attempt after pickup.
type LifecycleViolationError struct {
	Status Status
}

// NewLifecycleViolationError creates a LifecycleViolationError for the given status.
func NewLifecycleViolationError(status Status) *LifecycleViolationError {
	return &LifecycleViolationError{Status: status}
}

func (e *LifecycleViolationError) Error() string {
	return fmt.Sprintf("%s: order in status %s can no longer be cancelled", ErrLifecycleViolation, e.Status)
}

func (e *LifecycleViolationError) Unwrap() error {
	return ErrLifecycleViolation
}
