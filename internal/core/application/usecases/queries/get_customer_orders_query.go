package queries

import (
	"errors"

	"voiceorder/internal/pkg/guard"
)

var (
	ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
		"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
	)
	ErrCustomerRefIsRequired = errors.New("customer reference is required")
)

// GetCustomerOrdersQuery retrieves every order snapshot belonging to one
// customer, newest first.
type GetCustomerOrdersQuery struct {
	customerRef string

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates a query for the given customer.
func NewGetCustomerOrdersQuery(customerRef string) (GetCustomerOrdersQuery, error) {
	if customerRef == "" {
		return GetCustomerOrdersQuery{}, ErrCustomerRefIsRequired
	}

	return GetCustomerOrdersQuery{
		customerRef: customerRef,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCustomerOrdersQueryIsNotConstructed if validation fails.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

// CustomerRef returns the customer reference to look up.
func (q GetCustomerOrdersQuery) CustomerRef() string {
	return q.customerRef
}
