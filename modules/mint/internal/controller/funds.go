package controller

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/modules/mint/internal/funds"
	"github.com/gaze-network/mintgate/modules/mint/internal/splitter"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

// Fund sends amount from sender to the ledger's account.
func (c *Controller) Fund(ctx context.Context, sender entity.Address, amount *uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveFundsLocked(ctx, "fund", func(btx *funds.Tx) error {
		return btx.Transfer(sender, c.account, orZero(amount))
	})
}

// Deposit credits amount to an account from outside the ledger. Only the owner may call it.
func (c *Controller) Deposit(ctx context.Context, caller, to entity.Address, amount *uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOwner(caller); err != nil {
		return rejected(ctx, "deposit", err)
	}
	return c.moveFundsLocked(ctx, "deposit", func(btx *funds.Tx) error {
		return btx.Credit(to, orZero(amount))
	})
}

func (c *Controller) moveFundsLocked(ctx context.Context, op string, move func(btx *funds.Tx) error) error {
	btx := c.bank.Begin()
	defer btx.Rollback()
	if err := move(btx); err != nil {
		return rejected(ctx, op, err)
	}
	changes := btx.Changes()
	if err := c.dg.SetBalances(ctx, changes); err != nil {
		return errors.Wrap(err, "failed to save balances")
	}
	btx.Commit()
	logger.InfoContext(ctx, "Moved funds", slogx.String("op", op), slogx.Int("accounts", len(changes)))
	return nil
}

// WithdrawSplits pays the ledger's balance out to the revenue share recipients. Anyone may call it.
func (c *Controller) WithdrawSplits(ctx context.Context) (*entity.Withdrawal, error) {
	withdrawal, err := c.splitter.Withdraw(ctx, vault{c})
	if err != nil {
		return nil, rejected(ctx, "withdraw_splits", err)
	}
	return withdrawal, nil
}

// vault adapts the controller to the splitter. Only Deliver runs without the controller lock, so
// recipients may call back into the ledger.
type vault struct {
	c *Controller
}

func (v vault) Hold(ctx context.Context, total func(balance *uint256.Int) *uint256.Int) (*uint256.Int, error) {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	balance := v.c.bank.BalanceOf(v.c.account)
	if err := v.c.bank.Hold(total(balance)); err != nil {
		return nil, errors.WithStack(err)
	}
	return balance, nil
}

func (v vault) Deliver(ctx context.Context, payout entity.Payout) error {
	return errors.WithStack(v.c.bank.Deliver(ctx, payout))
}

func (v vault) Release(ctx context.Context, amount *uint256.Int) error {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()
	return errors.WithStack(v.c.bank.Release(amount))
}

func (v vault) Settle(ctx context.Context, balance *uint256.Int, payouts []entity.Payout) (*entity.Withdrawal, error) {
	v.c.mu.Lock()
	defer v.c.mu.Unlock()

	btx := v.c.bank.Begin()
	defer btx.Rollback()
	if err := btx.Settle(payouts); err != nil {
		return nil, errors.WithStack(err)
	}

	qtx, err := v.c.dg.BeginMintTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, qtx)

	if err := qtx.SetBalances(ctx, btx.Changes()); err != nil {
		return nil, errors.Wrap(err, "failed to save balances")
	}
	withdrawal := entity.Withdrawal{
		Balance:   balance.Clone(),
		Payouts:   payouts,
		CreatedAt: time.Now().UTC(),
	}
	if err := qtx.CreateWithdrawal(ctx, withdrawal); err != nil {
		return nil, errors.Wrap(err, "failed to create withdrawal")
	}
	if err := qtx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit withdrawal")
	}
	btx.Commit()

	logger.InfoContext(ctx, "Withdrew revenue splits",
		slogx.String("balance", balance.Dec()),
		slogx.Any("payouts", lo.Map(payouts, func(p entity.Payout, _ int) string {
			return p.Recipient.String() + "=" + p.Amount.Dec()
		})),
	)
	return &withdrawal, nil
}

var _ splitter.Vault = vault{}
