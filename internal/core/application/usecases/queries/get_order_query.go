// Package queries contains read-only operations over the order store.
// Queries bypass the domain aggregates and read projections directly,
// implementing the read side of the CQRS architecture.
package queries

import (
	"errors"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order snapshot: status, items, derived total,
// and the full status history.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return fmt.Errorf("invalid query: %w", err)
//	}
//
//	handler := NewGetOrderQueryHandler(db)
//	snapshot, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//	fmt.Printf("Order %s is %s\n", snapshot.ID, snapshot.Status)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to fetch.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is one order line in a query response.
type OrderItemResponse struct {
	Name      string
	UnitPrice string
	Quantity  int
	LineTotal string
}

// StatusChangeResponse is one status history entry in a query response.
type StatusChangeResponse struct {
	Status string
	At     string
	Note   string
}

// GetOrderQueryResponse is the full snapshot of one order.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	CustomerRef   string
	Status        string
	Items         []OrderItemResponse
	Address       string
	PaymentMethod string
	DriverRef     string
	Total         string
	History       []StatusChangeResponse
}
