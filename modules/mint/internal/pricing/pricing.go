package pricing

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
)

var ErrIncorrectFunds = errs.Reject(errs.IncorrectFunds, "Incorrect funds")

// Cost returns quantity * unitPrice, failing on uint256 overflow.
func Cost(quantity uint64, unitPrice *uint256.Int) (*uint256.Int, error) {
	cost, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(quantity), unitPrice)
	if overflow {
		return nil, errors.WithStack(errs.OverflowUint256)
	}
	return cost, nil
}

// RequireExactPayment accepts attached only if it equals quantity * unitPrice. An overflowing
// cost can never be paid and is rejected the same way.
func RequireExactPayment(attached *uint256.Int, quantity uint64, unitPrice *uint256.Int) error {
	cost, err := Cost(quantity, unitPrice)
	if err != nil {
		return errors.WithStack(ErrIncorrectFunds)
	}
	if !cost.Eq(attached) {
		return errors.WithStack(ErrIncorrectFunds)
	}
	return nil
}

// Policy holds the per-phase unit prices.
type Policy struct {
	prices entity.PriceTable
}

func NewPolicy(prices entity.PriceTable) *Policy {
	return &Policy{prices: clone(prices)}
}

func (p *Policy) Prices() entity.PriceTable {
	return clone(p.prices)
}

// SetPrices replaces the prices that are not nil.
func (p *Policy) SetPrices(allowlistPrice, publicPrice *uint256.Int) {
	if allowlistPrice != nil {
		p.prices.AllowlistPrice = allowlistPrice.Clone()
	}
	if publicPrice != nil {
		p.prices.PublicPrice = publicPrice.Clone()
	}
}

func (p *Policy) AllowlistPrice() *uint256.Int {
	return p.prices.AllowlistPrice.Clone()
}

func (p *Policy) PublicPrice() *uint256.Int {
	return p.prices.PublicPrice.Clone()
}

func clone(prices entity.PriceTable) entity.PriceTable {
	out := entity.PriceTable{
		AllowlistPrice: new(uint256.Int),
		PublicPrice:    new(uint256.Int),
	}
	if prices.AllowlistPrice != nil {
		out.AllowlistPrice.Set(prices.AllowlistPrice)
	}
	if prices.PublicPrice != nil {
		out.PublicPrice.Set(prices.PublicPrice)
	}
	return out
}
