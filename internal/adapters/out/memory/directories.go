package memory

import (
	"context"
	"strings"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/services"
	"voiceorder/internal/pkg/errs"
)

// Menu is a static in-memory menu catalog.
type Menu struct {
	items []services.MenuItem
}

// NewMenu creates a menu over the given items.
func NewMenu(items []services.MenuItem) *Menu {
	return &Menu{items: items}
}

// SeededMenu returns the stock menu used by single-node deployments.
func SeededMenu() *Menu {
	return NewMenu([]services.MenuItem{
		{ID: "item_001", Name: "Margherita Pizza", Description: "Classic cheese pizza with fresh basil", Price: mustMoney(299), Category: "mains"},
		{ID: "item_002", Name: "Chicken Burger", Description: "Grilled chicken patty with lettuce and mayo", Price: mustMoney(199), Category: "mains"},
		{ID: "item_003", Name: "French Fries", Description: "Crispy golden fries with seasoning", Price: mustMoney(99), Category: "sides"},
		{ID: "item_004", Name: "Pasta Alfredo", Description: "Creamy white sauce pasta", Price: mustMoney(279), Category: "mains"},
		{ID: "item_005", Name: "Club Sandwich", Description: "Triple layer sandwich with fries", Price: mustMoney(179), Category: "mains"},
	})
}

// Find matches a caller's free-form item request against the menu. The
// match is case-insensitive and tolerates partial names in either
// direction: "pizza" finds "Margherita Pizza" and "one margherita pizza
// with extra cheese" still lands on the right line.
func (m *Menu) Find(query string) (services.MenuItem, bool) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return services.MenuItem{}, false
	}

	for _, item := range m.items {
		name := strings.ToLower(item.Name)
		if strings.Contains(normalized, name) || strings.Contains(name, normalized) {
			return item, true
		}
	}

	// Fall back to word-level matching so "burger" finds "Chicken Burger".
	for _, item := range m.items {
		for _, word := range strings.Fields(strings.ToLower(item.Name)) {
			if strings.Contains(normalized, word) {
				return item, true
			}
		}
	}

	return services.MenuItem{}, false
}

// List returns the full menu in presentation order.
func (m *Menu) List() []services.MenuItem {
	out := make([]services.MenuItem, len(m.items))
	copy(out, m.items)
	return out
}

// DriverDirectory is a static in-memory driver pool.
type DriverDirectory struct {
	drivers []services.Driver
}

// NewDriverDirectory creates a directory over the given drivers.
func NewDriverDirectory(drivers []services.Driver) *DriverDirectory {
	return &DriverDirectory{drivers: drivers}
}

// SeededDriverDirectory returns the stock driver pool used by single-node
// deployments.
func SeededDriverDirectory() *DriverDirectory {
	return NewDriverDirectory([]services.Driver{
		{ID: "drv_001", Name: "Rahul Kumar", Phone: "+91-9876543220", Vehicle: "Bike", Rating: 4.8, Available: true},
		{ID: "drv_002", Name: "Amit Singh", Phone: "+91-9876543221", Vehicle: "Bike", Rating: 4.6, Available: true},
		{ID: "drv_003", Name: "Priya Sharma", Phone: "+91-9876543222", Vehicle: "Scooter", Rating: 4.9, Available: false},
	})
}

// Available returns the drivers currently free to take an order.
func (d *DriverDirectory) Available(_ context.Context) ([]services.Driver, error) {
	available := make([]services.Driver, 0, len(d.drivers))
	for _, driver := range d.drivers {
		if driver.Available {
			available = append(available, driver)
		}
	}
	return available, nil
}

// RestaurantDirectory is a static in-memory restaurant registry.
type RestaurantDirectory struct {
	restaurants []services.Restaurant
}

// NewRestaurantDirectory creates a directory over the given restaurants.
func NewRestaurantDirectory(restaurants []services.Restaurant) *RestaurantDirectory {
	return &RestaurantDirectory{restaurants: restaurants}
}

// SeededRestaurantDirectory returns the stock restaurants used by
// single-node deployments.
func SeededRestaurantDirectory() *RestaurantDirectory {
	return NewRestaurantDirectory([]services.Restaurant{
		{ID: "rest_001", Name: "Pizza Paradise", Phone: "+91-9876543210", AvgPrepMinutes: 20, Open: true},
		{ID: "rest_002", Name: "Burger Hub", Phone: "+91-9876543211", AvgPrepMinutes: 15, Open: true},
	})
}

// Default returns the restaurant orders are routed to.
func (r *RestaurantDirectory) Default(_ context.Context) (services.Restaurant, error) {
	if len(r.restaurants) == 0 {
		return services.Restaurant{}, errs.NewObjectNotFoundError("restaurant", "default")
	}
	return r.restaurants[0], nil
}

func mustMoney(amount float64) kernel.Money {
	money, err := kernel.NewMoneyFromFloat(amount)
	if err != nil {
		panic(err)
	}
	return money
}
