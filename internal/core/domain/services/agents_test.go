package services_test

import (
	"context"
	"testing"
	"time"

	"voiceorder/internal/core/domain/model/agent"
	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mustMoney(t *testing.T, amount float64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromFloat(amount)
	require.NoError(t, err)
	return m
}

type stubMenu struct {
	items []services.MenuItem
}

func (m stubMenu) Find(query string) (services.MenuItem, bool) {
	for _, item := range m.items {
		if item.Name == query {
			return item, true
		}
	}
	return services.MenuItem{}, false
}

func (m stubMenu) List() []services.MenuItem {
	return m.items
}

type stubDrivers struct {
	drivers []services.Driver
	err     error
}

func (d stubDrivers) Available(context.Context) ([]services.Driver, error) {
	return d.drivers, d.err
}

type stubRestaurants struct {
	restaurant services.Restaurant
	err        error
}

func (r stubRestaurants) Default(context.Context) (services.Restaurant, error) {
	return r.restaurant, r.err
}

type stubHistory struct {
	orders []*order.Order
	err    error
}

func (h stubHistory) GetByCustomer(context.Context, string) ([]*order.Order, error) {
	return h.orders, h.err
}

func testMenu(t *testing.T) stubMenu {
	t.Helper()
	return stubMenu{items: []services.MenuItem{
		{ID: "item_001", Name: "Margherita Pizza", Price: mustMoney(t, 299), Category: "mains"},
		{ID: "item_002", Name: "Chicken Burger", Price: mustMoney(t, 199), Category: "mains"},
		{ID: "item_003", Name: "French Fries", Price: mustMoney(t, 99), Category: "sides"},
	}}
}

func draftOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "caller_42", testNow)
	require.NoError(t, err)
	return o
}

func orderAt(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o := draftOrder(t)
	item, err := order.NewItem("Margherita Pizza", mustMoney(t, 299), 1)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(item))
	require.NoError(t, o.SetAddress("12 MG Road, Bengaluru"))
	require.NoError(t, o.SetPaymentMethod(order.CashOnDelivery))

	for next := order.Placed; next <= status; next++ {
		require.NoError(t, o.Advance(next, "test", testNow))
	}
	return o
}

func toolContext(o *order.Order, args map[string]string) *services.ToolContext {
	if args == nil {
		args = map[string]string{}
	}
	return &services.ToolContext{
		Order:       o,
		CustomerRef: "caller_42",
		Args:        args,
		Now:         testNow,
	}
}

func TestCustomerOrderAgent_Execute(t *testing.T) {
	ctx := context.Background()
	a := services.NewCustomerOrderAgent(testMenu(t))

	t.Run("should add menu item with quantity and report running total", func(t *testing.T) {
		o := draftOrder(t)
		tc := toolContext(o, map[string]string{"item": "Margherita Pizza", "quantity": "2"})

		result, err := a.Execute(ctx, agent.IntentAddItem, tc)

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Contains(t, result.Reply, "2 x Margherita Pizza")
		assert.True(t, o.Total().IsEqual(mustMoney(t, 598)))
	})

	t.Run("should reply softly for off-menu item without mutating order", func(t *testing.T) {
		o := draftOrder(t)
		tc := toolContext(o, map[string]string{"item": "Sushi Platter"})

		result, err := a.Execute(ctx, agent.IntentAddItem, tc)

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Contains(t, result.Reply, "Sushi Platter")
		assert.Empty(t, o.Items())
	})

	t.Run("should refuse placement of incomplete order", func(t *testing.T) {
		o := draftOrder(t)
		tc := toolContext(o, nil)

		_, err := a.Execute(ctx, agent.IntentConfirmOrder, tc)

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrIncompleteOrder)
	})

	t.Run("should place complete order on confirmation", func(t *testing.T) {
		o := draftOrder(t)
		item, err := order.NewItem("Chicken Burger", mustMoney(t, 199), 1)
		require.NoError(t, err)
		require.NoError(t, o.AddItem(item))
		require.NoError(t, o.SetAddress("12 MG Road, Bengaluru"))
		require.NoError(t, o.SetPaymentMethod(order.Online))

		result, err := a.Execute(ctx, agent.IntentConfirmOrder, toolContext(o, nil))

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("should ask for clarification on ambiguous payment", func(t *testing.T) {
		o := draftOrder(t)
		tc := toolContext(o, map[string]string{"text": "whatever works"})

		result, err := a.Execute(ctx, agent.IntentChoosePayment, tc)

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Contains(t, result.Reply, "cash on delivery")
	})

	t.Run("should fail without a draft order", func(t *testing.T) {
		_, err := a.Execute(ctx, agent.IntentAddItem, toolContext(nil, nil))
		require.Error(t, err)
	})
}

func TestRestaurantCoordinationAgent_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("should confirm placed order and relay prep estimate", func(t *testing.T) {
		a := services.NewRestaurantCoordinationAgent(stubRestaurants{
			restaurant: services.Restaurant{ID: "rest_001", Name: "Pizza Paradise", AvgPrepMinutes: 20, Open: true},
		})
		o := orderAt(t, order.Placed)

		result, err := a.Execute(ctx, agent.IntentConfirmOrder, toolContext(o, nil))

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Contains(t, result.Reply, "Pizza Paradise")
		assert.Contains(t, result.Reply, "20 minutes")
	})

	t.Run("should not confirm when restaurant is closed", func(t *testing.T) {
		a := services.NewRestaurantCoordinationAgent(stubRestaurants{
			restaurant: services.Restaurant{ID: "rest_001", Name: "Pizza Paradise", Open: false},
		})
		o := orderAt(t, order.Placed)

		result, err := a.Execute(ctx, agent.IntentConfirmOrder, toolContext(o, nil))

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("should narrate status when order is already confirmed", func(t *testing.T) {
		a := services.NewRestaurantCoordinationAgent(stubRestaurants{
			restaurant: services.Restaurant{ID: "rest_001", Name: "Pizza Paradise", Open: true},
		})
		o := orderAt(t, order.Preparing)

		result, err := a.Execute(ctx, agent.IntentConfirmOrder, toolContext(o, nil))

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Equal(t, order.Preparing, o.Status())
	})
}

func TestDriverAssignmentAgent_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("should assign highest rated available driver", func(t *testing.T) {
		a := services.NewDriverAssignmentAgent(stubDrivers{drivers: []services.Driver{
			{ID: "drv_001", Name: "Rahul Kumar", Vehicle: "Bike", Rating: 4.8, Available: true},
			{ID: "drv_002", Name: "Amit Singh", Vehicle: "Bike", Rating: 4.6, Available: true},
		}})
		o := orderAt(t, order.Confirmed)

		result, err := a.Execute(ctx, agent.IntentDriverETA, toolContext(o, nil))

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Equal(t, "drv_001", o.DriverRef())
		assert.Contains(t, result.Reply, "Rahul Kumar")
	})

	t.Run("should reply softly when no drivers are available", func(t *testing.T) {
		a := services.NewDriverAssignmentAgent(stubDrivers{})
		o := orderAt(t, order.Confirmed)

		result, err := a.Execute(ctx, agent.IntentDriverETA, toolContext(o, nil))

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Empty(t, o.DriverRef())
	})

	t.Run("should keep existing driver assignment", func(t *testing.T) {
		a := services.NewDriverAssignmentAgent(stubDrivers{drivers: []services.Driver{
			{ID: "drv_002", Name: "Amit Singh", Vehicle: "Bike", Rating: 4.6, Available: true},
		}})
		o := orderAt(t, order.Confirmed)
		require.NoError(t, o.AssignDriver("drv_001"))

		result, err := a.Execute(ctx, agent.IntentDriverETA, toolContext(o, nil))

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Equal(t, "drv_001", o.DriverRef())
	})

	t.Run("should not assign a driver before confirmation", func(t *testing.T) {
		a := services.NewDriverAssignmentAgent(stubDrivers{drivers: []services.Driver{
			{ID: "drv_001", Name: "Rahul Kumar", Vehicle: "Bike", Rating: 4.8, Available: true},
		}})
		o := orderAt(t, order.Placed)

		result, err := a.Execute(ctx, agent.IntentDriverETA, toolContext(o, nil))

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Empty(t, o.DriverRef())
	})
}

func TestDeliveryTrackingAgent_Execute(t *testing.T) {
	ctx := context.Background()
	a := services.NewDeliveryTrackingAgent()

	t.Run("should narrate status of session order", func(t *testing.T) {
		o := orderAt(t, order.InTransit)

		result, err := a.Execute(ctx, agent.IntentTrackOrder, toolContext(o, nil))

		require.NoError(t, err)
		assert.Contains(t, result.Reply, "on the way")
	})

	t.Run("should fall back to latest order on record", func(t *testing.T) {
		tc := toolContext(nil, nil)
		tc.History = stubHistory{orders: []*order.Order{orderAt(t, order.Preparing)}}

		result, err := a.Execute(ctx, agent.IntentTrackOrder, tc)

		require.NoError(t, err)
		assert.Contains(t, result.Reply, "being prepared")
	})

	t.Run("should report nothing to track for unknown caller", func(t *testing.T) {
		tc := toolContext(nil, nil)
		tc.History = stubHistory{}

		result, err := a.Execute(ctx, agent.IntentTrackOrder, tc)

		require.NoError(t, err)
		assert.Contains(t, result.Reply, "don't see any orders")
	})
}

func TestCustomerSupportAgent_Execute(t *testing.T) {
	ctx := context.Background()
	policy := order.NewRefundPolicy(mustMoney(t, 50))
	a := services.NewCustomerSupportAgent(policy)

	t.Run("should cancel placed order with full refund", func(t *testing.T) {
		o := orderAt(t, order.Placed)

		result, err := a.Execute(ctx, agent.IntentCancelOrder, toolContext(o, nil))

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Contains(t, result.Reply, "full refund of 299.00")
	})

	t.Run("should cancel preparing order with partial refund", func(t *testing.T) {
		o := orderAt(t, order.Preparing)

		result, err := a.Execute(ctx, agent.IntentRefundRequest, toolContext(o, nil))

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Contains(t, result.Reply, "partial refund of 249.00")
	})

	t.Run("should propagate lifecycle violation after pickup", func(t *testing.T) {
		o := orderAt(t, order.PickedUp)

		_, err := a.Execute(ctx, agent.IntentCancelOrder, toolContext(o, nil))

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrLifecycleViolation)
		assert.Equal(t, order.PickedUp, o.Status())
	})

	t.Run("should ask for details on bare complaint", func(t *testing.T) {
		result, err := a.Execute(ctx, agent.IntentComplaint, toolContext(nil, nil))

		require.NoError(t, err)
		assert.Contains(t, result.Reply, "tell me a bit more")
	})

	t.Run("should cancel latest order on record when session has none", func(t *testing.T) {
		o := orderAt(t, order.Confirmed)
		tc := toolContext(nil, nil)
		tc.History = stubHistory{orders: []*order.Order{o}}

		result, err := a.Execute(ctx, agent.IntentCancelOrder, tc)

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Equal(t, order.Cancelled, o.Status())
	})
}

func TestPostDeliveryAgent_Execute(t *testing.T) {
	ctx := context.Background()
	a := services.NewPostDeliveryAgent()

	t.Run("should thank for good rating and complete delivered order", func(t *testing.T) {
		o := orderAt(t, order.Delivered)

		result, err := a.Execute(ctx, agent.IntentFeedback, toolContext(o, map[string]string{"rating": "5"}))

		require.NoError(t, err)
		assert.True(t, result.OrderMutated)
		assert.Equal(t, order.Completed, o.Status())
		assert.Contains(t, result.Reply, "Thank you")
	})

	t.Run("should offer discount code for poor rating", func(t *testing.T) {
		o := orderAt(t, order.Delivered)

		result, err := a.Execute(ctx, agent.IntentFeedback, toolContext(o, map[string]string{"rating": "2"}))

		require.NoError(t, err)
		assert.Contains(t, result.Reply, "SAVE20")
		assert.Equal(t, order.Completed, o.Status())
	})

	t.Run("should ask for rating when none was given", func(t *testing.T) {
		o := orderAt(t, order.Delivered)

		result, err := a.Execute(ctx, agent.IntentFeedback, toolContext(o, nil))

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Equal(t, order.Delivered, o.Status())
		assert.Contains(t, result.Reply, "1 to 5")
	})

	t.Run("should leave in-flight order alone on goodbye", func(t *testing.T) {
		o := orderAt(t, order.InTransit)

		result, err := a.Execute(ctx, agent.IntentGoodbye, toolContext(o, nil))

		require.NoError(t, err)
		assert.False(t, result.OrderMutated)
		assert.Equal(t, order.InTransit, o.Status())
	})
}
