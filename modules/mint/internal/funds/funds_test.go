package funds

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contract = *ethtypes.MustNewAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	alice    = *ethtypes.MustNewAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	bob      = *ethtypes.MustNewAddress("0x70997970C51812dc3A010C7d01b50e20d17dc79C")
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func TestTransfer(t *testing.T) {
	t.Parallel()
	b := NewBank(contract, []entity.Balance{{Address: alice, Amount: u(100)}})

	tx := b.Begin()
	require.NoError(t, tx.Transfer(alice, contract, u(30)))
	assert.EqualValues(t, 70, tx.BalanceOf(alice).Uint64())
	assert.Equal(t, []entity.Balance{
		{Address: alice, Amount: u(70)},
		{Address: contract, Amount: u(30)},
	}, tx.Changes())
	tx.Commit()
	tx.Rollback()

	assert.EqualValues(t, 70, b.BalanceOf(alice).Uint64())
	assert.EqualValues(t, 30, b.BalanceOf(contract).Uint64())
}

func TestTransferInsufficientBalance(t *testing.T) {
	t.Parallel()
	b := NewBank(contract, []entity.Balance{{Address: alice, Amount: u(10)}})

	tx := b.Begin()
	err := tx.Transfer(alice, contract, u(11))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.ErrorIs(t, err, errs.InsufficientBalance)
	assert.Empty(t, tx.Changes())
	tx.Rollback()

	tx = b.Begin()
	defer tx.Rollback()
	assert.ErrorIs(t, tx.Transfer(bob, alice, u(1)), errs.InsufficientBalance)
}

func TestRollback(t *testing.T) {
	t.Parallel()
	b := NewBank(contract, []entity.Balance{{Address: alice, Amount: u(10)}})

	tx := b.Begin()
	require.NoError(t, tx.Transfer(alice, bob, u(10)))
	require.NoError(t, tx.Credit(bob, u(5)))
	tx.Rollback()
	tx.Commit()

	assert.EqualValues(t, 10, b.BalanceOf(alice).Uint64())
	assert.True(t, b.BalanceOf(bob).IsZero())
}

func TestCreditOverflow(t *testing.T) {
	t.Parallel()
	b := NewBank(contract, []entity.Balance{{Address: alice, Amount: new(uint256.Int).SetAllOne()}})
	tx := b.Begin()
	defer tx.Rollback()
	assert.ErrorIs(t, tx.Credit(alice, u(1)), errs.OverflowUint256)
}

func TestEscrow(t *testing.T) {
	t.Parallel()
	b := NewBank(contract, []entity.Balance{{Address: contract, Amount: u(100)}})

	assert.ErrorIs(t, b.Hold(u(101)), errs.InsufficientBalance)
	require.NoError(t, b.Hold(u(90)))
	assert.EqualValues(t, 10, b.BalanceOf(contract).Uint64())
	assert.EqualValues(t, 100, b.BookBalanceOf(contract).Uint64())

	// a payment arriving while funds are held is booked on top of the escrow
	tx := b.Begin()
	require.NoError(t, tx.Credit(contract, u(5)))
	assert.Equal(t, []entity.Balance{{Address: contract, Amount: u(105)}}, tx.Changes())
	tx.Commit()

	tx = b.Begin()
	require.NoError(t, tx.Settle([]entity.Payout{
		{Recipient: alice, Amount: u(60)},
		{Recipient: bob, Amount: u(30)},
	}))
	assert.Equal(t, []entity.Balance{
		{Address: alice, Amount: u(60)},
		{Address: bob, Amount: u(30)},
		{Address: contract, Amount: u(15)},
	}, tx.Changes())
	tx.Commit()

	assert.True(t, b.Held().IsZero())
	assert.EqualValues(t, 15, b.BalanceOf(contract).Uint64())
	assert.EqualValues(t, 60, b.BalanceOf(alice).Uint64())
}

func TestRelease(t *testing.T) {
	t.Parallel()
	b := NewBank(contract, []entity.Balance{{Address: contract, Amount: u(100)}})
	require.NoError(t, b.Hold(u(40)))
	require.NoError(t, b.Release(u(40)))
	assert.EqualValues(t, 100, b.BalanceOf(contract).Uint64())
	assert.ErrorIs(t, b.Release(u(1)), errs.InvalidArgument)

	tx := b.Begin()
	defer tx.Rollback()
	assert.ErrorIs(t, tx.Settle([]entity.Payout{{Recipient: alice, Amount: u(1)}}), errs.InvalidArgument)
}

func TestDeliver(t *testing.T) {
	t.Parallel()
	b := NewBank(contract, nil)
	ctx := context.Background()
	payout := entity.Payout{Recipient: alice, Amount: u(7)}

	// accounts without a receiver accept everything
	require.NoError(t, b.Deliver(ctx, payout))

	var got *uint256.Int
	b.SetReceiver(alice, func(_ context.Context, from entity.Address, amount *uint256.Int) error {
		assert.Equal(t, contract, from)
		got = amount
		// receivers run without the bank lock
		assert.True(t, b.BalanceOf(alice).IsZero())
		return nil
	})
	require.NoError(t, b.Deliver(ctx, payout))
	assert.EqualValues(t, 7, got.Uint64())

	rejected := errors.New("no thanks")
	b.SetReceiver(alice, func(context.Context, entity.Address, *uint256.Int) error { return rejected })
	assert.ErrorIs(t, b.Deliver(ctx, payout), rejected)

	b.SetReceiver(alice, nil)
	assert.NoError(t, b.Deliver(ctx, payout))
}
