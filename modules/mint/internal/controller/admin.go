package controller

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/gaze-network/mintgate/modules/mint/internal/phase"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/holiman/uint256"
)

// updateStateLocked checks the caller, persists the state produced by change and then applies it.
// apply must not fail once change has succeeded.
func (c *Controller) updateStateLocked(ctx context.Context, op string, caller entity.Address, change func(state *entity.LedgerState) error, apply func()) error {
	if err := c.requireOwner(caller); err != nil {
		return rejected(ctx, op, err)
	}
	state := c.stateLocked()
	if err := change(&state); err != nil {
		return rejected(ctx, op, err)
	}
	state.UpdatedAt = time.Now().UTC()
	if err := c.dg.SaveLedgerState(ctx, state); err != nil {
		return errors.Wrap(err, "failed to save ledger state")
	}
	apply()
	logger.InfoContext(ctx, "Updated ledger configuration", slogx.String("op", op))
	return nil
}

func (c *Controller) SetAllowlistRoot(ctx context.Context, caller entity.Address, root merkle.Hash) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateStateLocked(ctx, "set_allowlist_root", caller, func(state *entity.LedgerState) error {
		state.AllowlistRoot = root
		return nil
	}, func() {
		c.root = root
	})
}

func (c *Controller) SetAllowlistActive(ctx context.Context, caller entity.Address, active bool) error {
	return c.setPhaseActive(ctx, "set_allowlist_active", caller, phase.Allowlist, active)
}

func (c *Controller) SetPublicActive(ctx context.Context, caller entity.Address, active bool) error {
	return c.setPhaseActive(ctx, "set_public_active", caller, phase.Public, active)
}

func (c *Controller) setPhaseActive(ctx context.Context, op string, caller entity.Address, p phase.Phase, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateStateLocked(ctx, op, caller, func(state *entity.LedgerState) error {
		if p == phase.Allowlist {
			state.Phases.AllowlistActive = active
		} else {
			state.Phases.PublicActive = active
		}
		return nil
	}, func() {
		_ = c.phases.SetActive(p, active)
	})
}

// SetPhases switches the phases whose flag is not nil. Both flags are saved in one update.
func (c *Controller) SetPhases(ctx context.Context, caller entity.Address, allowlistActive, publicActive *bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var flags entity.PhaseFlags
	return c.updateStateLocked(ctx, "set_phases", caller, func(state *entity.LedgerState) error {
		if allowlistActive != nil {
			state.Phases.AllowlistActive = *allowlistActive
		}
		if publicActive != nil {
			state.Phases.PublicActive = *publicActive
		}
		flags = state.Phases
		return nil
	}, func() {
		c.phases.SetFlags(flags)
	})
}

// SetMaxAllowlist sets the per-wallet allowlist cap. It cannot go below what a wallet has
// already minted in the allowlist phase; reset that wallet's counter first.
func (c *Controller) SetMaxAllowlist(ctx context.Context, caller entity.Address, n uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateStateLocked(ctx, "set_max_allowlist", caller, func(state *entity.LedgerState) error {
		if err := c.phases.CheckMaxPerWallet(n); err != nil {
			return errors.WithStack(err)
		}
		state.MaxAllowlistPerWallet = n
		return nil
	}, func() {
		_ = c.phases.SetMaxPerWallet(n)
	})
}

func (c *Controller) SetAllowlistSupply(ctx context.Context, caller entity.Address, n uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateStateLocked(ctx, "set_allowlist_supply", caller, func(state *entity.LedgerState) error {
		if err := c.supply.CheckAllowlistSupply(n); err != nil {
			return errors.WithStack(err)
		}
		state.MaxAllowlistSupply = n
		return nil
	}, func() {
		_ = c.supply.SetAllowlistSupply(n)
	})
}

// SetPrices replaces the unit prices that are not nil.
func (c *Controller) SetPrices(ctx context.Context, caller entity.Address, allowlistPrice, publicPrice *uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateStateLocked(ctx, "set_prices", caller, func(state *entity.LedgerState) error {
		if allowlistPrice != nil {
			state.Prices.AllowlistPrice = allowlistPrice.Clone()
		}
		if publicPrice != nil {
			state.Prices.PublicPrice = publicPrice.Clone()
		}
		return nil
	}, func() {
		c.pricing.SetPrices(allowlistPrice, publicPrice)
	})
}

// ResetAllowlistCounter clears the allowlist mint count of wallet.
func (c *Controller) ResetAllowlistCounter(ctx context.Context, caller entity.Address, wallet entity.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "reset_allowlist_counter"
	if err := c.requireOwner(caller); err != nil {
		return rejected(ctx, op, err)
	}
	if err := c.dg.SetAllowlistCount(ctx, entity.AllowlistCount{Wallet: wallet}); err != nil {
		return errors.Wrap(err, "failed to reset allowlist count")
	}
	c.phases.ResetWallet(wallet)
	logger.InfoContext(ctx, "Reset allowlist counter", slogx.Stringer("wallet", &wallet))
	return nil
}
