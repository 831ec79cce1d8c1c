package services_test

import (
	"testing"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanout_Recipients(t *testing.T) {
	fanout := services.NewFanout()

	event := func(to order.Status) order.LifecycleTransitioned {
		return order.LifecycleTransitioned{
			OrderID: kernel.NewUUID(),
			From:    order.Cart,
			To:      to,
			At:      testNow,
		}
	}

	t.Run("should notify restaurant on placement", func(t *testing.T) {
		recipients, err := fanout.Recipients(event(order.Placed))
		require.NoError(t, err)
		assert.Equal(t, []services.Collaborator{services.CollaboratorRestaurant}, recipients)
	})

	t.Run("should notify driver pool on confirmation", func(t *testing.T) {
		recipients, err := fanout.Recipients(event(order.Confirmed))
		require.NoError(t, err)
		assert.Equal(t, []services.Collaborator{services.CollaboratorDriverPool}, recipients)
	})

	t.Run("should notify customer in transit", func(t *testing.T) {
		for _, status := range []order.Status{order.PickedUp, order.InTransit} {
			recipients, err := fanout.Recipients(event(status))
			require.NoError(t, err)
			assert.Equal(t, []services.Collaborator{services.CollaboratorCustomer}, recipients)
		}
	})

	t.Run("should notify post delivery on delivery", func(t *testing.T) {
		recipients, err := fanout.Recipients(event(order.Delivered))
		require.NoError(t, err)
		assert.Equal(t, []services.Collaborator{services.CollaboratorPostDelivery}, recipients)
	})

	t.Run("should fail for statuses outside the fanout table", func(t *testing.T) {
		for _, status := range []order.Status{order.Cart, order.Preparing, order.Ready, order.Completed, order.Cancelled} {
			_, err := fanout.Recipients(event(status))
			require.Error(t, err)
			require.ErrorIs(t, err, services.ErrNoRecipients)
			assert.False(t, fanout.Notifies(status))
		}
	})
}
