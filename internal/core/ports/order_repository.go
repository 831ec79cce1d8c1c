package ports

import (
	"context"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are never deleted; settled orders stay available for history and
// refund lookups.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write is
	// atomic: status, items, and history are stored together so no reader
	// observes a mutated item list against a stale status.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByCustomer retrieves all orders belonging to a customer reference,
	// newest first. Used by the support agent for "where is my order"
	// queries without an order id.
	GetByCustomer(ctx context.Context, customerRef string) ([]*order.Order, error)
}
