package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetCustomerOrdersQueryHandler retrieves all order snapshots for one
// customer from the database.
type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerOrdersQueryHandler creates a handler for customer order queries.
func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

// Handle executes the query. An unknown customer yields an empty slice, not
// an error: having no orders is a valid state.
func (h GetCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerOrdersQuery,
) ([]GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_ref,
			address,
			payment_method,
			status,
			driver_ref,
			items,
			history
		FROM orders
		WHERE customer_ref = ?
		ORDER BY (history->0->>'at') DESC
	`, query.CustomerRef()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrderQueryResponse, 0)
	for rows.Next() {
		response, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
