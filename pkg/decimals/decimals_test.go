package decimals

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	t.Run("check_supported_types", func(t *testing.T) {
		testcases := []struct {
			decimals uint16
			value    uint64
			expected string
		}{
			{0, 1, "1"},
			{1, 1, "0.1"},
			{18, 1, "0.000000000000000001"},
			{18, 150000000000000000, "0.15"},
			{36, 1, "0.000000000000000000000000000000000001"},
		}
		typesConv := []func(uint64) any{
			func(i uint64) any { return int(i) },
			func(i uint64) any { return int64(i) },
			func(i uint64) any { return uint64(i) },
			func(i uint64) any { return fmt.Sprint(i) },
			func(i uint64) any { return new(big.Int).SetUint64(i) },
			func(i uint64) any { return new(uint128.Uint128).Add64(i) },
			func(i uint64) any { return *uint256.NewInt(i) },
			func(i uint64) any { return uint256.NewInt(i) },
		}
		for _, tc := range testcases {
			t.Run(fmt.Sprintf("%d_%d", tc.decimals, tc.value), func(t *testing.T) {
				for _, conv := range typesConv {
					input := conv(tc.value)
					t.Run(fmt.Sprintf("%T", input), func(t *testing.T) {
						actual := ToDecimal(input, tc.decimals)
						assert.Equal(t, tc.expected, actual.String())
					})
				}
			})
		}
	})

	testcases := []struct {
		decimals uint16
		value    interface{}
		expected string
	}{
		{0, uint64(math.MaxUint64), "18446744073709551615"},
		{18, uint64(math.MaxUint64), "18.446744073709551615"},
		{18, uint128.Max, "340282366920938463463.374607431768211455"},
		{18, new(uint256.Int).SetAllOne(), "115792089237316195423570985008687907853269984665640564039457.584007913129639935"},
	}
	for _, tc := range testcases {
		t.Run(fmt.Sprintf("%d_%s", tc.decimals, tc.value), func(t *testing.T) {
			actual := ToDecimal(tc.value, tc.decimals)
			assert.Equal(t, tc.expected, actual.String())
		})
	}
}

func TestParseEther(t *testing.T) {
	testcases := []struct {
		input    string
		expected string
	}{
		{"0.15", "150000000000000000"},
		{"1", "1000000000000000000"},
		{"0", "0"},
		{"0.000000000000000001", "1"},
		{"1234.5", "1234500000000000000000"},
	}
	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			actual, err := ParseEther(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual.Dec())
			assert.Equal(t, tc.input, FormatEther(actual))
		})
	}

	for _, invalid := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		t.Run("invalid_"+invalid, func(t *testing.T) {
			_, err := ParseEther(invalid)
			assert.ErrorIs(t, err, errs.InvalidArgument)
		})
	}

	t.Run("overflow", func(t *testing.T) {
		_, err := ParseUnits("115792089237316195423570985008687907853269984665640564039457584007913129639936", 0)
		assert.ErrorIs(t, err, errs.OverflowUint256)
	})
}
