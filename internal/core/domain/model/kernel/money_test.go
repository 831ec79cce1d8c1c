package kernel_test

import (
	"testing"

	"voiceorder/internal/core/domain/model/kernel"
	"voiceorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("accepts zero and positive amounts", func(t *testing.T) {
		zero, err := kernel.NewMoney(decimal.Zero)
		require.NoError(t, err)
		assert.True(t, zero.IsZero())

		price, err := kernel.NewMoney(decimal.NewFromInt(299))
		require.NoError(t, err)
		assert.Equal(t, "299.00", price.String())
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(-1))

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
	})
}

func TestMoneyFromString(t *testing.T) {
	t.Run("parses decimal strings", func(t *testing.T) {
		m, err := kernel.MoneyFromString("199.50")

		require.NoError(t, err)
		assert.Equal(t, "199.50", m.String())
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		_, err := kernel.MoneyFromString("two hundred")

		require.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	pizza, _ := kernel.MoneyFromString("299.00")
	burger, _ := kernel.MoneyFromString("199.00")

	t.Run("Add sums amounts", func(t *testing.T) {
		total := pizza.Add(burger)

		assert.Equal(t, "498.00", total.String())
	})

	t.Run("MulQuantity scales by item count", func(t *testing.T) {
		assert.Equal(t, "897.00", pizza.MulQuantity(3).String())
	})

	t.Run("Sub floors at zero", func(t *testing.T) {
		assert.Equal(t, "100.00", pizza.Sub(burger).String())
		assert.True(t, burger.Sub(pizza).IsZero())
	})

	t.Run("IsEqual compares numerically", func(t *testing.T) {
		other, _ := kernel.MoneyFromString("299.0")

		assert.True(t, pizza.IsEqual(other))
		assert.False(t, pizza.IsEqual(burger))
	})
}
