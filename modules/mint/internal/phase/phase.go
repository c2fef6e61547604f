package phase

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
)

type Phase int32

const (
	Allowlist Phase = iota
	Public
)

func (p Phase) String() string {
	switch p {
	case Allowlist:
		return "allowlist"
	case Public:
		return "public"
	}
	return "unknown"
}

const ReasonAllowanceExceeded = "Exceeded max available to purchase"

var (
	ErrAllowlistInactive = errs.Reject(errs.PhaseInactive, "Allowlist mint is not active")
	ErrPublicInactive    = errs.Reject(errs.PhaseInactive, "Public sale is not active")
	ErrAllowanceExceeded = errs.Reject(errs.AllowanceExceeded, ReasonAllowanceExceeded)
	errUnknownPhase      = errors.Wrap(errs.InvalidArgument, "unknown phase")
)

// Controller holds the sale switches and per-wallet allowlist counters. Access is serialized by
// the owner.
type Controller struct {
	flags        entity.PhaseFlags
	maxPerWallet uint64
	counts       map[entity.Address]uint64
}

func NewController(flags entity.PhaseFlags, maxPerWallet uint64, counts []entity.AllowlistCount) *Controller {
	c := &Controller{
		flags:        flags,
		maxPerWallet: maxPerWallet,
		counts:       make(map[entity.Address]uint64, len(counts)),
	}
	for _, count := range counts {
		if count.Count > 0 {
			c.counts[count.Wallet] = count.Count
		}
	}
	return c
}

func (c *Controller) RequireActive(p Phase) error {
	switch p {
	case Allowlist:
		if !c.flags.AllowlistActive {
			return errors.WithStack(ErrAllowlistInactive)
		}
	case Public:
		if !c.flags.PublicActive {
			return errors.WithStack(ErrPublicInactive)
		}
	default:
		return errors.WithStack(errUnknownPhase)
	}
	return nil
}

// Allowance is a wallet's allowlist count after a pending mint.
type Allowance struct {
	Wallet entity.Address
	Count  uint64
}

// CheckWalletAllowance checks that wallet may mint quantity more units in the allowlist phase.
// The counter changes only when the returned allowance is committed.
func (c *Controller) CheckWalletAllowance(wallet entity.Address, quantity uint64) (Allowance, error) {
	prior := c.counts[wallet]
	if prior > c.maxPerWallet || quantity > c.maxPerWallet-prior {
		return Allowance{}, errors.WithStack(ErrAllowanceExceeded)
	}
	return Allowance{Wallet: wallet, Count: prior + quantity}, nil
}

func (c *Controller) Commit(a Allowance) {
	c.counts[a.Wallet] = a.Count
}

func (c *Controller) Counter(wallet entity.Address) uint64 {
	return c.counts[wallet]
}

func (c *Controller) Flags() entity.PhaseFlags {
	return c.flags
}

func (c *Controller) SetFlags(flags entity.PhaseFlags) {
	c.flags = flags
}

func (c *Controller) SetActive(p Phase, active bool) error {
	switch p {
	case Allowlist:
		c.flags.AllowlistActive = active
	case Public:
		c.flags.PublicActive = active
	default:
		return errors.WithStack(errUnknownPhase)
	}
	return nil
}

func (c *Controller) MaxPerWallet() uint64 {
	return c.maxPerWallet
}

// CheckMaxPerWallet checks that no wallet has already minted more than n in the allowlist phase.
func (c *Controller) CheckMaxPerWallet(n uint64) error {
	for wallet, count := range c.counts {
		if count > n {
			return errors.Wrapf(errs.InvalidArgument, "max allowlist per wallet %d is below %d already minted by %s", n, count, wallet.String())
		}
	}
	return nil
}

func (c *Controller) SetMaxPerWallet(n uint64) error {
	if err := c.CheckMaxPerWallet(n); err != nil {
		return errors.WithStack(err)
	}
	c.maxPerWallet = n
	return nil
}

// ResetWallet clears a wallet's allowlist counter.
func (c *Controller) ResetWallet(wallet entity.Address) {
	delete(c.counts, wallet)
}
