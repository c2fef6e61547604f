package controller

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/gaze-network/mintgate/modules/mint/internal/phase"
	"github.com/gaze-network/mintgate/modules/mint/internal/pricing"
	"github.com/gaze-network/mintgate/modules/mint/internal/supply"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/holiman/uint256"
)

var ErrInvalidProof = errs.Reject(errs.InvalidProof, "Invalid MerkleProof")

// mint is a fully checked mint waiting to be committed.
type mint struct {
	category    entity.Category
	sender      entity.Address
	recipient   entity.Address
	payment     *uint256.Int
	reservation supply.Reservation
	allowance   *phase.Allowance
	tokens      []entity.Token
}

// InternalMint issues quantity tokens to recipient without payment. Only the owner may call it.
func (c *Controller) InternalMint(ctx context.Context, caller entity.Address, quantity uint64, recipient entity.Address) (*entity.MintEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "internal_mint"
	if err := c.requireOwner(caller); err != nil {
		return nil, rejected(ctx, op, err)
	}
	reservation, err := c.supply.Reserve(entity.CategoryInternal, quantity)
	if err != nil {
		return nil, rejected(ctx, op, err)
	}
	tokens, err := c.tokens.CheckIssue(recipient, quantity)
	if err != nil {
		return nil, rejected(ctx, op, err)
	}
	return c.commitMintLocked(ctx, mint{
		category:    entity.CategoryInternal,
		sender:      caller,
		recipient:   recipient,
		payment:     new(uint256.Int),
		reservation: reservation,
		tokens:      tokens,
	})
}

// AllowlistMint issues quantity tokens to a member of the allowlist, paid by sender. The proof
// must show recipient is in the allowlist committed by the current root.
func (c *Controller) AllowlistMint(ctx context.Context, sender, recipient entity.Address, quantity uint64, proof []merkle.Hash, payment *uint256.Int) (*entity.MintEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "allowlist_mint"
	payment = orZero(payment)
	if err := c.phases.RequireActive(phase.Allowlist); err != nil {
		return nil, rejected(ctx, op, err)
	}
	if !merkle.Verify(c.root, recipient, proof) {
		return nil, rejected(ctx, op, errors.WithStack(ErrInvalidProof))
	}
	if err := pricing.RequireExactPayment(payment, quantity, c.pricing.AllowlistPrice()); err != nil {
		return nil, rejected(ctx, op, err)
	}
	allowance, err := c.phases.CheckWalletAllowance(recipient, quantity)
	if err != nil {
		return nil, rejected(ctx, op, err)
	}
	// supply is reserved last so a failed proof or payment never reaches the counters
	reservation, err := c.supply.Reserve(entity.CategoryAllowlist, quantity)
	if err != nil {
		return nil, rejected(ctx, op, err)
	}
	tokens, err := c.tokens.CheckIssue(recipient, quantity)
	if err != nil {
		return nil, rejected(ctx, op, err)
	}
	return c.commitMintLocked(ctx, mint{
		category:    entity.CategoryAllowlist,
		sender:      sender,
		recipient:   recipient,
		payment:     payment,
		reservation: reservation,
		allowance:   &allowance,
		tokens:      tokens,
	})
}

// PublicMint issues quantity tokens to recipient, paid by sender.
func (c *Controller) PublicMint(ctx context.Context, sender, recipient entity.Address, quantity uint64, payment *uint256.Int) (*entity.MintEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "public_mint"
	payment = orZero(payment)
	if err := c.phases.RequireActive(phase.Public); err != nil {
		return nil, rejected(ctx, op, err)
	}
	if err := pricing.RequireExactPayment(payment, quantity, c.pricing.PublicPrice()); err != nil {
		return nil, rejected(ctx, op, err)
	}
	reservation, err := c.supply.Reserve(entity.CategoryPublic, quantity)
	if err != nil {
		return nil, rejected(ctx, op, err)
	}
	tokens, err := c.tokens.CheckIssue(recipient, quantity)
	if err != nil {
		return nil, rejected(ctx, op, err)
	}
	return c.commitMintLocked(ctx, mint{
		category:    entity.CategoryPublic,
		sender:      sender,
		recipient:   recipient,
		payment:     payment,
		reservation: reservation,
		tokens:      tokens,
	})
}

// commitMintLocked takes the payment, persists every effect of m in one transaction and only then
// applies it in memory. Nothing changes if any step fails.
func (c *Controller) commitMintLocked(ctx context.Context, m mint) (_ *entity.MintEvent, err error) {
	btx := c.bank.Begin()
	defer btx.Rollback()
	if err := btx.Transfer(m.sender, c.account, m.payment); err != nil {
		return nil, rejected(ctx, m.category.String()+"_mint", err)
	}

	qtx, err := c.dg.BeginMintTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, qtx)

	state := c.stateLocked()
	state.Supply = m.reservation.Counters()
	state.UpdatedAt = time.Now().UTC()
	if err := qtx.SaveLedgerState(ctx, state); err != nil {
		return nil, errors.Wrap(err, "failed to save ledger state")
	}
	if m.allowance != nil {
		if err := qtx.SetAllowlistCount(ctx, entity.AllowlistCount{Wallet: m.allowance.Wallet, Count: m.allowance.Count}); err != nil {
			return nil, errors.Wrap(err, "failed to save allowlist count")
		}
	}
	if err := qtx.CreateTokens(ctx, m.tokens); err != nil {
		return nil, errors.Wrap(err, "failed to create tokens")
	}
	if err := qtx.SetBalances(ctx, btx.Changes()); err != nil {
		return nil, errors.Wrap(err, "failed to save balances")
	}
	event := entity.MintEvent{
		Category:     m.category,
		Sender:       m.sender,
		Recipient:    m.recipient,
		Quantity:     uint64(len(m.tokens)),
		Payment:      m.payment.Clone(),
		FirstTokenID: m.tokens[0].ID,
		CreatedAt:    state.UpdatedAt,
	}
	if err := qtx.CreateMintEvent(ctx, event); err != nil {
		return nil, errors.Wrap(err, "failed to create mint event")
	}
	if err := qtx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit mint")
	}

	btx.Commit()
	c.supply.Commit(m.reservation)
	if m.allowance != nil {
		c.phases.Commit(*m.allowance)
	}
	if _, err := c.tokens.Issue(m.recipient, event.Quantity); err != nil {
		// CheckIssue passed under the same lock, so this means memory and storage disagree
		logger.PanicContext(ctx, "Issued tokens diverged from persisted state", slogx.Error(err))
	}

	logger.InfoContext(ctx, "Minted tokens",
		slogx.Stringer("category", m.category),
		slogx.Stringer("sender", &m.sender),
		slogx.Stringer("recipient", &m.recipient),
		slogx.Uint64("quantity", event.Quantity),
		slogx.Uint64("firstTokenId", event.FirstTokenID),
		slogx.String("payment", event.Payment.Dec()),
	)
	return &event, nil
}

func orZero(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return new(uint256.Int)
	}
	return amount
}
