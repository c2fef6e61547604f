package decimals

import (
	"github.com/shopspring/decimal"
)

// max precision is 36
const (
	minPowerOfTen = -DefaultDivPrecision
	maxPowerOfTen = DefaultDivPrecision
)

var powerOfTen = func() map[int64]decimal.Decimal {
	table := make(map[int64]decimal.Decimal, maxPowerOfTen-minPowerOfTen+1)
	for n := int64(minPowerOfTen); n <= maxPowerOfTen; n++ {
		table[n] = decimal.New(1, int32(n))
	}
	return table
}()

// PowerOfTen optimized arithmetic performance for 10^n.
func PowerOfTen(n int64) decimal.Decimal {
	if val, ok := powerOfTen[n]; ok {
		return val
	}
	return decimal.New(1, int32(n))
}
