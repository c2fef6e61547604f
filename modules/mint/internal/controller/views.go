package controller

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/modules/mint/datagateway"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/holiman/uint256"
)

type Info struct {
	Name                  string
	Symbol                string
	Owner                 entity.Address
	Account               entity.Address
	MaxSupply             uint64
	MaxAllowlistSupply    uint64
	MaxAllowlistPerWallet uint64
	AllowlistMinted       uint64
	TotalSupply           uint64
	Phases                entity.PhaseFlags
	Prices                entity.PriceTable
	AllowlistRoot         merkle.Hash

	// Balance is the ledger account's balance, including funds held for a pending withdrawal.
	Balance *uint256.Int
	Shares  []entity.RevenueShare
}

func (c *Controller) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	counters := c.supply.Counters()
	return Info{
		Name:                  c.tokens.Name(),
		Symbol:                c.tokens.Symbol(),
		Owner:                 c.owner,
		Account:               c.account,
		MaxSupply:             c.supply.MaxSupply(),
		MaxAllowlistSupply:    c.supply.MaxAllowlistSupply(),
		MaxAllowlistPerWallet: c.phases.MaxPerWallet(),
		AllowlistMinted:       counters.AllowlistIssued,
		TotalSupply:           c.tokens.TotalSupply(),
		Phases:                c.phases.Flags(),
		Prices:                c.pricing.Prices(),
		AllowlistRoot:         c.root,
		Balance:               c.bank.BookBalanceOf(c.account),
		Shares:                c.splitter.Shares(),
	}
}

func (c *Controller) TotalSupply() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.TotalSupply()
}

func (c *Controller) AllowlistMinted() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supply.Counters().AllowlistIssued
}

// AllowlistCounter returns how many tokens wallet has minted in the allowlist phase.
func (c *Controller) AllowlistCounter(wallet entity.Address) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phases.Counter(wallet)
}

func (c *Controller) OwnerOf(id uint64) (entity.Address, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	owner, err := c.tokens.OwnerOf(id)
	return owner, errors.WithStack(err)
}

type Wallet struct {
	Address        entity.Address
	Tokens         []uint64
	Balance        *uint256.Int
	AllowlistCount uint64
}

func (c *Controller) Wallet(addr entity.Address) Wallet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Wallet{
		Address:        addr,
		Tokens:         c.tokens.TokensOf(addr),
		Balance:        c.bank.BookBalanceOf(addr),
		AllowlistCount: c.phases.Counter(addr),
	}
}

// BalanceOf returns the available currency balance of addr.
func (c *Controller) BalanceOf(addr entity.Address) *uint256.Int {
	return c.bank.BalanceOf(addr)
}

func (c *Controller) MintEvents(ctx context.Context, arg datagateway.GetMintEventsParams) ([]entity.MintEvent, error) {
	events, err := c.dg.GetMintEvents(ctx, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mint events")
	}
	return events, nil
}

func (c *Controller) Withdrawals(ctx context.Context, limit, offset int32) ([]entity.Withdrawal, error) {
	withdrawals, err := c.dg.GetWithdrawals(ctx, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get withdrawals")
	}
	return withdrawals, nil
}
