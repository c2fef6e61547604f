package funds

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

var ErrInsufficientBalance = errs.Reject(errs.InsufficientBalance, "Insufficient balance")

// Receiver is called when a payout is sent to an account. Returning an error rejects the funds.
// Calls back into the ledger must use ctx.
type Receiver func(ctx context.Context, from entity.Address, amount *uint256.Int) error

// Bank holds the native currency balances of every account, including the ledger's own account.
// Funds held in escrow for a pending payout are no longer available to the account but still
// belong to it until settled.
type Bank struct {
	mu       sync.Mutex
	account  entity.Address
	balances map[entity.Address]*uint256.Int
	held     *uint256.Int

	receiversMu sync.RWMutex
	receivers   map[entity.Address]Receiver
}

func NewBank(account entity.Address, balances []entity.Balance) *Bank {
	b := &Bank{
		account:   account,
		balances:  make(map[entity.Address]*uint256.Int, len(balances)),
		held:      new(uint256.Int),
		receivers: make(map[entity.Address]Receiver),
	}
	for _, balance := range balances {
		if balance.Amount != nil && !balance.Amount.IsZero() {
			b.balances[balance.Address] = balance.Amount.Clone()
		}
	}
	return b
}

// Account is the address of the ledger's own account.
func (b *Bank) Account() entity.Address {
	return b.account
}

func (b *Bank) BalanceOf(addr entity.Address) *uint256.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balanceOf(addr)
}

func (b *Bank) balanceOf(addr entity.Address) *uint256.Int {
	if balance, ok := b.balances[addr]; ok {
		return balance.Clone()
	}
	return new(uint256.Int)
}

func (b *Bank) Held() *uint256.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held.Clone()
}

// Hold moves amount out of the ledger account's available balance into escrow.
func (b *Bank) Hold(amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	available := b.balanceOf(b.account)
	if available.Lt(amount) {
		return errors.WithStack(ErrInsufficientBalance)
	}
	b.balances[b.account] = available.Sub(available, amount)
	b.held = new(uint256.Int).Add(b.held, amount)
	return nil
}

// Release returns escrowed funds to the ledger account.
func (b *Bank) Release(amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.held.Lt(amount) {
		return errors.Wrap(errs.InvalidArgument, "release exceeds held funds")
	}
	b.held = new(uint256.Int).Sub(b.held, amount)
	b.balances[b.account] = new(uint256.Int).Add(b.balanceOf(b.account), amount)
	return nil
}

// SetReceiver registers the receiver hook of addr. A nil receiver removes it.
func (b *Bank) SetReceiver(addr entity.Address, receiver Receiver) {
	b.receiversMu.Lock()
	defer b.receiversMu.Unlock()
	if receiver == nil {
		delete(b.receivers, addr)
		return
	}
	b.receivers[addr] = receiver
}

// Deliver offers a payout to its recipient's receiver hook. It must be called without holding
// any ledger lock, since the hook may call back into the ledger.
func (b *Bank) Deliver(ctx context.Context, payout entity.Payout) error {
	b.receiversMu.RLock()
	receiver, ok := b.receivers[payout.Recipient]
	b.receiversMu.RUnlock()
	if !ok {
		return nil
	}
	return errors.WithStack(receiver(ctx, b.account, payout.Amount.Clone()))
}

// Tx stages balance changes under the bank lock until Commit or Rollback.
type Tx struct {
	bank    *Bank
	staged  map[entity.Address]*uint256.Int
	held    *uint256.Int
	touched []entity.Address
	done    bool
}

// Begin locks the bank for a transaction. Every Begin must be followed by Commit or Rollback.
func (b *Bank) Begin() *Tx {
	b.mu.Lock()
	return &Tx{
		bank:   b,
		staged: make(map[entity.Address]*uint256.Int),
		held:   b.held.Clone(),
	}
}

func (tx *Tx) BalanceOf(addr entity.Address) *uint256.Int {
	if balance, ok := tx.staged[addr]; ok {
		return balance.Clone()
	}
	return tx.bank.balanceOf(addr)
}

func (tx *Tx) set(addr entity.Address, amount *uint256.Int) {
	if _, ok := tx.staged[addr]; !ok {
		tx.touched = append(tx.touched, addr)
	}
	tx.staged[addr] = amount
}

func (tx *Tx) Transfer(from, to entity.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	fromBalance := tx.BalanceOf(from)
	if fromBalance.Lt(amount) {
		return errors.WithStack(ErrInsufficientBalance)
	}
	if from == to {
		return nil
	}
	toBalance, overflow := new(uint256.Int).AddOverflow(tx.BalanceOf(to), amount)
	if overflow {
		return errors.WithStack(errs.OverflowUint256)
	}
	tx.set(from, fromBalance.Sub(fromBalance, amount))
	tx.set(to, toBalance)
	return nil
}

// Credit adds funds entering from outside the ledger.
func (tx *Tx) Credit(to entity.Address, amount *uint256.Int) error {
	balance, overflow := new(uint256.Int).AddOverflow(tx.BalanceOf(to), amount)
	if overflow {
		return errors.WithStack(errs.OverflowUint256)
	}
	tx.set(to, balance)
	return nil
}

// Settle pays escrowed funds out to their recipients.
func (tx *Tx) Settle(payouts []entity.Payout) error {
	total := new(uint256.Int)
	for _, payout := range payouts {
		total.Add(total, payout.Amount)
	}
	if tx.held.Lt(total) {
		return errors.Wrap(errs.InvalidArgument, "settlement exceeds held funds")
	}
	for _, payout := range payouts {
		if err := tx.Credit(payout.Recipient, payout.Amount); err != nil {
			return errors.WithStack(err)
		}
	}
	tx.held.Sub(tx.held, total)
	// the ledger account's book balance changes with the escrow
	if _, ok := tx.staged[tx.bank.account]; !ok {
		tx.set(tx.bank.account, tx.bank.balanceOf(tx.bank.account))
	}
	return nil
}

// Changes returns the book balances of every account touched by the transaction, in first-touch
// order. The ledger account's book balance includes escrowed funds.
func (tx *Tx) Changes() []entity.Balance {
	return lo.Map(tx.touched, func(addr entity.Address, _ int) entity.Balance {
		amount := tx.staged[addr].Clone()
		if addr == tx.bank.account {
			amount.Add(amount, tx.held)
		}
		return entity.Balance{Address: addr, Amount: amount}
	})
}

func (tx *Tx) Commit() {
	if tx.done {
		return
	}
	for addr, amount := range tx.staged {
		if amount.IsZero() {
			delete(tx.bank.balances, addr)
			continue
		}
		tx.bank.balances[addr] = amount
	}
	tx.bank.held = tx.held
	tx.done = true
	tx.bank.mu.Unlock()
}

// Rollback discards staged changes. It is safe to call after Commit.
func (tx *Tx) Rollback() {
	if tx.done {
		return
	}
	tx.done = true
	tx.bank.mu.Unlock()
}

// BookBalanceOf returns the balance an account owns, including escrowed funds of the ledger account.
func (b *Bank) BookBalanceOf(addr entity.Address) *uint256.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	balance := b.balanceOf(addr)
	if addr == b.account {
		balance.Add(balance, b.held)
	}
	return balance
}
