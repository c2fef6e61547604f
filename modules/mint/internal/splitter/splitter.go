package splitter

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

var (
	ErrTransferFailed = errs.Reject(errs.TransferFailed, "Transfer failed")
	ErrReentrantCall  = errs.Reject(errs.ReentrantCall, "ReentrancyGuard: reentrant call")
)

// Vault is the account the splitter pays out of.
type Vault interface {
	// Hold reads the account balance once, computes the payout total from it and moves that total
	// into escrow before returning.
	Hold(ctx context.Context, total func(balance *uint256.Int) *uint256.Int) (balance *uint256.Int, err error)
	// Deliver offers one payout to its recipient. It is called without ledger locks held.
	Deliver(ctx context.Context, payout entity.Payout) error
	// Release returns escrowed funds to the account.
	Release(ctx context.Context, amount *uint256.Int) error
	// Settle credits the recipients with escrowed funds and records the withdrawal.
	Settle(ctx context.Context, balance *uint256.Int, payouts []entity.Payout) (*entity.Withdrawal, error)
}

// Splitter distributes an account balance to a fixed list of recipients by fixed shares.
type Splitter struct {
	shares []entity.RevenueShare

	// mu serializes withdrawals. It is held while recipients are contacted.
	mu sync.Mutex
}

// withdrawingKey marks the context handed to recipients of an in-flight withdrawal.
type withdrawingKey struct{}

func New(shares []entity.RevenueShare) (*Splitter, error) {
	if err := Validate(shares); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Splitter{shares: append([]entity.RevenueShare(nil), shares...)}, nil
}

// Validate checks that shares name distinct non-zero recipients and sum to exactly 100%.
func Validate(shares []entity.RevenueShare) error {
	if len(shares) == 0 {
		return errors.Wrap(errs.InvalidArgument, "no revenue shares")
	}
	var sum uint64
	seen := make(map[entity.Address]struct{}, len(shares))
	for i, share := range shares {
		if share.Recipient == entity.ZeroAddress {
			return errors.Wrapf(errs.InvalidArgument, "share %d: recipient is the zero address", i)
		}
		if _, ok := seen[share.Recipient]; ok {
			return errors.Wrapf(errs.InvalidArgument, "share %d: duplicate recipient %s", i, share.Recipient.String())
		}
		seen[share.Recipient] = struct{}{}
		if share.Numerator == 0 || share.Numerator > entity.ShareDenominator {
			return errors.Wrapf(errs.InvalidArgument, "share %d: invalid numerator %d", i, share.Numerator)
		}
		sum += share.Numerator
	}
	if sum != entity.ShareDenominator {
		return errors.Wrapf(errs.InvalidArgument, "shares sum to %d, want %d", sum, entity.ShareDenominator)
	}
	return nil
}

func (s *Splitter) Shares() []entity.RevenueShare {
	return append([]entity.RevenueShare(nil), s.shares...)
}

// Payouts computes every recipient's floor share of balance, in share order. Rounding residue is
// not paid out.
func (s *Splitter) Payouts(balance *uint256.Int) []entity.Payout {
	denominator := uint256.NewInt(entity.ShareDenominator)
	return lo.Map(s.shares, func(share entity.RevenueShare, _ int) entity.Payout {
		// numerator <= denominator, so the quotient always fits
		amount, _ := new(uint256.Int).MulDivOverflow(balance, uint256.NewInt(share.Numerator), denominator)
		return entity.Payout{Recipient: share.Recipient, Amount: amount}
	})
}

func total(payouts []entity.Payout) *uint256.Int {
	return lo.Reduce(payouts, func(sum *uint256.Int, payout entity.Payout, _ int) *uint256.Int {
		return sum.Add(sum, payout.Amount)
	}, new(uint256.Int))
}

// Withdraw pays the vault's current balance out to the recipients. The vault is debited before any
// recipient is contacted; if any recipient rejects its payout the escrow is returned and no one
// is paid. Concurrent withdrawals run one after another. A nested Withdraw made with the context
// a recipient was given fails with ReentrantCall.
func (s *Splitter) Withdraw(ctx context.Context, vault Vault) (*entity.Withdrawal, error) {
	if w, ok := ctx.Value(withdrawingKey{}).(*Splitter); ok && w == s {
		return nil, errors.WithStack(ErrReentrantCall)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx = context.WithValue(ctx, withdrawingKey{}, s)

	var (
		payouts []entity.Payout
		amount  *uint256.Int
	)
	balance, err := vault.Hold(ctx, func(balance *uint256.Int) *uint256.Int {
		payouts = s.Payouts(balance)
		amount = total(payouts)
		return amount
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to hold payout")
	}
	if amount.IsZero() {
		return &entity.Withdrawal{Balance: balance, Payouts: []entity.Payout{}}, nil
	}

	for _, payout := range payouts {
		if err := vault.Deliver(ctx, payout); err != nil {
			if rerr := vault.Release(ctx, amount); rerr != nil {
				return nil, errors.Wrap(rerr, "failed to release escrow")
			}
			return nil, errors.Wrapf(ErrTransferFailed, "recipient %s", payout.Recipient.String())
		}
	}

	withdrawal, err := vault.Settle(ctx, balance, payouts)
	if err != nil {
		if rerr := vault.Release(ctx, amount); rerr != nil {
			return nil, errors.Wrap(rerr, "failed to release escrow")
		}
		return nil, errors.Wrap(err, "failed to settle payout")
	}
	return withdrawal, nil
}
