package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"
)

// CustomerOrderAgent takes the order: menu inquiries, cart assembly, address
// and payment collection, and final placement. Every session starts here.
type CustomerOrderAgent struct {
	menu Menu
}

// NewCustomerOrderAgent creates the order-taking agent over the given menu.
func NewCustomerOrderAgent(menu Menu) *CustomerOrderAgent {
	return &CustomerOrderAgent{menu: menu}
}

// ID returns agent.CustomerOrder.
func (a *CustomerOrderAgent) ID() agent.ID {
	return agent.CustomerOrder
}

// Execute resolves the cart-assembly intents against the draft order.
func (a *CustomerOrderAgent) Execute(_ context.Context, intent agent.Intent, tc *ToolContext) (Result, error) {
	if tc.Order == nil {
		return Result{}, errs.NewValueIsRequiredError("draft order")
	}

	switch intent {
	case agent.IntentAddItem:
		return a.addItem(tc)
	case agent.IntentRemoveItem:
		return a.removeItem(tc)
	case agent.IntentMenuInquiry:
		return a.listMenu(), nil
	case agent.IntentProvideAddr:
		return a.setAddress(tc)
	case agent.IntentChoosePayment:
		return a.setPayment(tc)
	case agent.IntentConfirmOrder:
		return a.confirm(tc)
	default:
		return Result{}, errs.NewValueIsInvalidError("intent " + intent.String())
	}
}

func (a *CustomerOrderAgent) addItem(tc *ToolContext) (Result, error) {
	query := tc.Args["item"]
	menuItem, found := a.menu.Find(query)
	if !found {
		// An off-menu request is a soft condition, not an error.
		return Result{Reply: fmt.Sprintf("Sorry, we don't have %q on the menu. Would you like to hear what we offer?", query)}, nil
	}

	quantity := 1
	if q, err := strconv.Atoi(tc.Args["quantity"]); err == nil && q > 0 {
		quantity = q
	}

	item, err := order.NewItem(menuItem.Name, menuItem.Price, quantity)
	if err != nil {
		return Result{}, err
	}
	if err := tc.Order.AddItem(item); err != nil {
		return Result{}, err
	}

	return Result{
		Reply:        fmt.Sprintf("Added %d x %s. Your total is now %s rupees. Anything else?", quantity, menuItem.Name, tc.Order.Total()),
		OrderMutated: true,
	}, nil
}

func (a *CustomerOrderAgent) removeItem(tc *ToolContext) (Result, error) {
	query := tc.Args["item"]
	menuItem, found := a.menu.Find(query)
	name := query
	if found {
		name = menuItem.Name
	}

	if err := tc.Order.RemoveItem(name); err != nil {
		return Result{}, err
	}
	return Result{
		Reply:        fmt.Sprintf("Removed %s. Your total is now %s rupees.", name, tc.Order.Total()),
		OrderMutated: true,
	}, nil
}

func (a *CustomerOrderAgent) listMenu() Result {
	var lines []string
	for _, item := range a.menu.List() {
		lines = append(lines, fmt.Sprintf("%s for %s rupees", item.Name, item.Price))
	}
	return Result{Reply: "We have " + strings.Join(lines, ", ") + ". What would you like?"}
}

func (a *CustomerOrderAgent) setAddress(tc *ToolContext) (Result, error) {
	address := tc.Args["address"]
	if address == "" {
		address = strings.TrimSpace(tc.Args["text"])
	}
	if err := tc.Order.SetAddress(address); err != nil {
		return Result{}, err
	}
	return Result{
		Reply:        "Got it, delivering to " + address + ". How would you like to pay, cash on delivery or online?",
		OrderMutated: true,
	}, nil
}

func (a *CustomerOrderAgent) setPayment(tc *ToolContext) (Result, error) {
	pm, err := order.PaymentMethodFromString(tc.Args["payment_method"])
	if err != nil {
		// Fall back to keyword matching on the raw utterance.
		text := strings.ToLower(tc.Args["text"])
		switch {
		case strings.Contains(text, "cash"):
			pm = order.CashOnDelivery
		case strings.Contains(text, "online"), strings.Contains(text, "card"), strings.Contains(text, "upi"):
			pm = order.Online
		default:
			return Result{Reply: "Would that be cash on delivery, or online payment?"}, nil
		}
	}

	if err := tc.Order.SetPaymentMethod(pm); err != nil {
		return Result{}, err
	}
	return Result{
		Reply:        "Payment set to " + strings.ReplaceAll(pm.String(), "_", " ") + ". Say confirm when you're ready to place the order.",
		OrderMutated: true,
	}, nil
}

func (a *CustomerOrderAgent) confirm(tc *ToolContext) (Result, error) {
	if err := tc.Order.Advance(order.Placed, "caller confirmed", tc.Now); err != nil {
		return Result{}, err
	}
	return Result{
		Reply: fmt.Sprintf("Your order is placed! The total is %s rupees, paying %s. You'll get it in about 30 minutes.",
			tc.Order.Total(), strings.ReplaceAll(tc.Order.PaymentMethod().String(), "_", " ")),
		OrderMutated: true,
	}, nil
}
