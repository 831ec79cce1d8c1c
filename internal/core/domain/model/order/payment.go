package order

import (
	"fmt"

	"voiceorder/internal/pkg/errs"
)

// PaymentMethod is the closed set of ways a caller can pay for an order.
type PaymentMethod int

const (
	// PaymentUnknown is the zero value; an order cannot leave Cart with it.
	PaymentUnknown PaymentMethod = iota

	// CashOnDelivery settles in cash when the driver arrives.
	CashOnDelivery

	// Online settles through the external payment collaborator before
	// placement.
	Online
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentUnknown: "unknown",
		CashOnDelivery: "cash_on_delivery",
		Online:         "online",
	}
}

// PaymentMethodFromString parses the persisted string form of a payment method.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for pm, str := range getPaymentMethodStrings() {
		if str == s && pm != PaymentUnknown {
			return pm, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment method",
		fmt.Errorf("%q is not a valid payment method", s),
	)
}

// Validate checks that the payment method is one of the defined values.
func (pm PaymentMethod) Validate() error {
	if pm != CashOnDelivery && pm != Online {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment method",
			fmt.Errorf("%d is not a valid payment method", pm),
		)
	}
	return nil
}

// String returns the snake_case name of the payment method.
func (pm PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[pm]; ok {
		return str
	}
	return "unknown"
}
