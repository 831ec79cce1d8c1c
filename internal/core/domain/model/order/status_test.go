package order_test

import (
	"fmt"
	"testing"

	"voiceorder/internal/core/domain/model/order"
	"voiceorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	t.Run("should use snake_case names", func(t *testing.T) {
		assert.Equal(t, "cart", order.Cart.String())
		assert.Equal(t, "picked_up", order.PickedUp.String())
		assert.Equal(t, "in_transit", order.InTransit.String())
		assert.Equal(t, "cancelled", order.Cancelled.String())
	})

	t.Run("should return unknown for invalid values", func(t *testing.T) {
		assert.Equal(t, "unknown", order.Status(99).String())
		assert.Equal(t, "unknown", order.Unknown.String())
	})
}

func TestStatusFromString(t *testing.T) {
	t.Run("should round trip every valid status", func(t *testing.T) {
		statuses := []order.Status{
			order.Cart, order.Placed, order.Confirmed, order.Preparing,
			order.Ready, order.PickedUp, order.InTransit, order.Delivered,
			order.Completed, order.Cancelled,
		}

		for _, status := range statuses {
			t.Run(status.String(), func(t *testing.T) {
				parsed, err := order.StatusFromString(status.String())
				require.NoError(t, err)
				assert.Equal(t, status, parsed)
			})
		}
	})

	t.Run("should reject unrecognized values", func(t *testing.T) {
		_, err := order.StatusFromString("teleported")

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should reject Unknown and out of range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(11)} {
			err := status.Validate()
			require.Error(t, err, "status %d must be invalid", status)
		}
	})
}

func TestStatus_Next(t *testing.T) {
	t.Run("should follow the fixed lifecycle ordering", func(t *testing.T) {
		expected := map[order.Status]order.Status{
			order.Cart:      order.Placed,
			order.Placed:    order.Confirmed,
			order.Confirmed: order.Preparing,
			order.Preparing: order.Ready,
			order.Ready:     order.PickedUp,
			order.PickedUp:  order.InTransit,
			order.InTransit: order.Delivered,
			order.Delivered: order.Completed,
		}

		for from, to := range expected {
			next, ok := from.Next()
			require.True(t, ok, "%s must have a successor", from)
			assert.Equal(t, to, next)
		}
	})

	t.Run("terminal states have no successor", func(t *testing.T) {
		for _, status := range []order.Status{order.Completed, order.Cancelled} {
			_, ok := status.Next()
			assert.False(t, ok)
		}
	})
}

func TestStatus_IsCancellable(t *testing.T) {
	t.Run("cancellable before pickup only", func(t *testing.T) {
		cancellable := []order.Status{order.Cart, order.Placed, order.Confirmed, order.Preparing, order.Ready}
		for _, status := range cancellable {
			assert.True(t, status.IsCancellable(), "%s must be cancellable", status)
		}

		locked := []order.Status{order.PickedUp, order.InTransit, order.Delivered, order.Completed, order.Cancelled}
		for _, status := range locked {
			assert.False(t, status.IsCancellable(), "%s must not be cancellable", status)
		}
	})
}

func TestStatus_Advance(t *testing.T) {
	t.Run("should allow each single step", func(t *testing.T) {
		steps := []order.Status{
			order.Cart, order.Placed, order.Confirmed, order.Preparing, order.Ready,
			order.PickedUp, order.InTransit, order.Delivered, order.Completed,
		}

		for i := 0; i < len(steps)-1; i++ {
			next, err := steps[i].Advance(steps[i+1])
			require.NoError(t, err)
			assert.Equal(t, steps[i+1], next)
		}
	})

	t.Run("should reject skipping states", func(t *testing.T) {
		_, err := order.Cart.Advance(order.Confirmed)

		require.Error(t, err)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "cart cannot advance directly to confirmed")
	})

	t.Run("should reject moving backwards", func(t *testing.T) {
		_, err := order.Preparing.Advance(order.Placed)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should reject any advance from terminal states", func(t *testing.T) {
		for _, terminal := range []order.Status{order.Completed, order.Cancelled} {
			t.Run(fmt.Sprintf("from %s", terminal), func(t *testing.T) {
				_, err := terminal.Advance(order.Placed)
				require.ErrorIs(t, err, order.ErrTerminalStateViolation)
			})
		}
	})

	t.Run("should allow cancellation before pickup", func(t *testing.T) {
		next, err := order.Preparing.Advance(order.Cancelled)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, next)
	})

	t.Run("should reject cancellation after pickup", func(t *testing.T) {
		for _, status := range []order.Status{order.PickedUp, order.InTransit, order.Delivered} {
			_, err := status.Advance(order.Cancelled)
			require.ErrorIs(t, err, order.ErrLifecycleViolation, "cancel from %s", status)
		}
	})
}
