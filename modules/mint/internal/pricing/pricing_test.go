package pricing

import (
	"testing"

	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 0.15 ether
var price = uint256.MustFromDecimal("150000000000000000")

func TestRequireExactPayment(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		name     string
		attached string
		quantity uint64
		valid    bool
	}{
		{"exact_one", "150000000000000000", 1, true},
		{"exact_two", "300000000000000000", 2, true},
		{"underpay", "149999999999999999", 1, false},
		{"overpay", "300000000000000001", 2, false},
		{"one_price_for_two", "150000000000000000", 2, false},
		{"zero", "0", 1, false},
		{"zero_quantity_zero_payment", "0", 0, true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireExactPayment(uint256.MustFromDecimal(tc.attached), tc.quantity, price)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrIncorrectFunds)
			assert.ErrorIs(t, err, errs.IncorrectFunds)
			assert.EqualError(t, err, "Incorrect funds")
		})
	}

	t.Run("overflow", func(t *testing.T) {
		maxPrice := new(uint256.Int).SetAllOne()
		_, err := Cost(2, maxPrice)
		assert.ErrorIs(t, err, errs.OverflowUint256)

		// the truncated product must never be accepted as payment
		truncated := new(uint256.Int).Mul(uint256.NewInt(2), maxPrice)
		assert.ErrorIs(t, RequireExactPayment(truncated, 2, maxPrice), errs.IncorrectFunds)
	})
}

func TestPolicy(t *testing.T) {
	t.Parallel()
	p := NewPolicy(entity.PriceTable{AllowlistPrice: price, PublicPrice: price})

	// callers get copies
	p.AllowlistPrice().SetUint64(1)
	assert.True(t, p.AllowlistPrice().Eq(price))

	p.SetPrices(nil, uint256.NewInt(42))
	assert.True(t, p.AllowlistPrice().Eq(price))
	assert.EqualValues(t, 42, p.PublicPrice().Uint64())

	empty := NewPolicy(entity.PriceTable{})
	require.NotNil(t, empty.Prices().AllowlistPrice)
	assert.True(t, empty.Prices().PublicPrice.IsZero())
}
