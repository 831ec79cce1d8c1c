package order

import (
	"fmt"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/errs"
)

// Item is a value object for a single order line: a menu item name, its unit
// price, and the ordered quantity. Items are immutable; changing a quantity
// replaces the line through the aggregate.
type Item struct {
	name      string
	unitPrice kernel.Money
	quantity  int
}

// NewItem creates an order line. The name must be non-empty and the quantity
// at least 1.
func NewItem(name string, unitPrice kernel.Money, quantity int) (Item, error) {
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity < 1 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is not at least 1", quantity),
		)
	}

	return Item{
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

// Name returns the menu item name.
func (i Item) Name() string {
	return i.name
}

// UnitPrice returns the price of a single unit.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the ordered unit count.
func (i Item) Quantity() int {
	return i.quantity
}

// LineTotal returns unit price times quantity.
func (i Item) LineTotal() kernel.Money {
	return i.unitPrice.MulQuantity(i.quantity)
}
