package services

import (
	"context"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
)

// MenuItem is one entry of the restaurant menu the order agent sells from.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       kernel.Money
	Category    string
}

// Menu is the lookup contract for menu items. Backed by a static in-memory
// catalog today; a restaurant-fed catalog later.
type Menu interface {
	// Find matches a caller's free-form item request against the menu.
	Find(query string) (MenuItem, bool)

	// List returns the full menu in presentation order.
	List() []MenuItem
}

// Driver is a courier in the driver pool.
type Driver struct {
	ID        string
	Name      string
	Phone     string
	Vehicle   string
	Rating    float64
	Available bool
}

// DriverDirectory is the driver-pool query contract used by the driver
// assignment agent.
type DriverDirectory interface {
	// Available returns the drivers currently free to take an order.
	Available(ctx context.Context) ([]Driver, error)
}

// Restaurant is a partner restaurant reachable for order confirmation.
type Restaurant struct {
	ID             string
	Name           string
	Phone          string
	AvgPrepMinutes int
	Open           bool
}

// RestaurantDirectory is the restaurant lookup contract used by the
// restaurant coordination agent.
type RestaurantDirectory interface {
	// Default returns the restaurant orders are routed to.
	Default(ctx context.Context) (Restaurant, error)
}

// OrderHistory is the read contract the support agent uses to find a
// caller's orders when no order is attached to the session. Satisfied by
// ports.OrderRepository.
type OrderHistory interface {
	GetByCustomer(ctx context.Context, customerRef string) ([]*order.Order, error)
}
