package decimals

import (
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36

	// EtherDecimals is the number of decimals between ether and wei.
	EtherDecimals = 18
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal convert an integer amount in its smallest unit to decimal.Decimal with the given decimals.
func ToDecimal(ivalue any, decimals uint16) decimal.Decimal {
	value := new(big.Int)
	switch v := ivalue.(type) {
	case string:
		value.SetString(v, 10)
	case *big.Int:
		value = v
	case int64:
		value.SetInt64(v)
	case uint64:
		value.SetUint64(v)
	case int:
		value.SetInt64(int64(v))
	case uint128.Uint128:
		value = v.Big()
	case uint256.Int:
		value = v.ToBig()
	case *uint256.Int:
		value = v.ToBig()
	}
	return decimal.NewFromBigInt(value, -int32(decimals))
}

// ParseUnits parses a non-negative decimal string such as "0.15" into its integer amount with the
// given decimals. Amounts with more fractional digits than decimals are rejected, not rounded.
func ParseUnits(s string, decimals uint16) (*uint256.Int, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", s)
	}
	if amount.IsNegative() {
		return nil, errors.Wrapf(errs.InvalidArgument, "negative amount %q", s)
	}
	scaled := amount.Mul(PowerOfTen(int64(decimals)))
	if !scaled.IsInteger() {
		return nil, errors.Wrapf(errs.InvalidArgument, "amount %q has more than %d decimals", s, decimals)
	}
	result := new(uint256.Int)
	if overflow := result.SetFromBig(scaled.BigInt()); overflow {
		return nil, errors.Wrapf(errs.OverflowUint256, "amount %q", s)
	}
	return result, nil
}

// FormatUnits formats an integer amount as a decimal string with the given decimals.
func FormatUnits(amount *uint256.Int, decimals uint16) string {
	return ToDecimal(amount, decimals).String()
}

// ParseEther parses an ether amount into wei.
func ParseEther(s string) (*uint256.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// FormatEther formats a wei amount in ether.
func FormatEther(wei *uint256.Int) string {
	return FormatUnits(wei, EtherDecimals)
}
