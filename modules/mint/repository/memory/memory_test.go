package memory

import (
	"context"
	"testing"

	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/datagateway"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = *ethtypes.MustNewAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	bob   = *ethtypes.MustNewAddress("0x70997970C51812dc3A010C7d01b50e20d17dc79C")
)

func TestLedgerStateNotFound(t *testing.T) {
	t.Parallel()
	repo := NewRepository()
	_, err := repo.GetLedgerState(context.Background())
	assert.ErrorIs(t, err, errs.NotFound)
}

func TestTxCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	tx, err := repo.BeginMintTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	require.NoError(t, tx.SaveLedgerState(ctx, entity.LedgerState{MaxSupply: 10, Supply: entity.SupplyCounters{TotalIssued: 2}}))
	require.NoError(t, tx.CreateTokens(ctx, []entity.Token{{ID: 0, Owner: alice}, {ID: 1, Owner: alice}}))
	require.NoError(t, tx.SetAllowlistCount(ctx, entity.AllowlistCount{Wallet: alice, Count: 2}))
	require.NoError(t, tx.SetBalances(ctx, []entity.Balance{{Address: alice, Amount: uint256.NewInt(5)}}))

	// uncommitted writes are visible inside the transaction only
	tokens, err := tx.GetTokens(ctx)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
	tokens, err = repo.GetTokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, tokens)

	require.NoError(t, tx.Commit(ctx))

	state, err := repo.GetLedgerState(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, state.Supply.TotalIssued)
	assert.False(t, state.UpdatedAt.IsZero())

	counts, err := repo.GetAllowlistCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.AllowlistCount{{Wallet: alice, Count: 2}}, counts)

	assert.Error(t, tx.CreateTokens(ctx, []entity.Token{{ID: 2, Owner: alice}}), "closed transaction must reject writes")
}

func TestTxRollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	tx, err := repo.BeginMintTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateTokens(ctx, []entity.Token{{ID: 0, Owner: alice}}))
	require.NoError(t, tx.CreateMintEvent(ctx, entity.MintEvent{Recipient: alice, Quantity: 1}))
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Commit(ctx))

	tokens, err := repo.GetTokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, tokens)
	events, err := repo.GetMintEvents(ctx, datagateway.GetMintEventsParams{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTxCommitAppliesOnlyStagedWrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()
	require.NoError(t, repo.CreateTokens(ctx, []entity.Token{{ID: 0, Owner: alice}}))
	require.NoError(t, repo.CreateMintEvent(ctx, entity.MintEvent{Recipient: alice, Quantity: 1}))

	tx, err := repo.BeginMintTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateTokens(ctx, []entity.Token{{ID: 1, Owner: alice}, {ID: 2, Owner: alice}}))
	require.NoError(t, tx.UpdateTokenOwner(ctx, entity.Token{ID: 0, Owner: bob}))
	require.NoError(t, tx.UpdateTokenOwner(ctx, entity.Token{ID: 2, Owner: bob}))
	require.NoError(t, tx.CreateMintEvent(ctx, entity.MintEvent{Recipient: alice, Quantity: 2}))
	assert.Error(t, tx.CreateTokens(ctx, []entity.Token{{ID: 1, Owner: bob}}), "staged tokens keep the sequence")

	// a write committed while the transaction is open survives its commit
	require.NoError(t, repo.SetBalances(ctx, []entity.Balance{{Address: bob, Amount: uint256.NewInt(7)}}))

	events, err := tx.GetMintEvents(ctx, datagateway.GetMintEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.EqualValues(t, 2, events[0].ID)

	require.NoError(t, tx.Commit(ctx))

	tokens, err := repo.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Token{{ID: 0, Owner: bob}, {ID: 1, Owner: alice}, {ID: 2, Owner: bob}}, tokens)

	balances, err := repo.GetBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "7", balances[0].Amount.Dec())

	events, err = repo.GetMintEvents(ctx, datagateway.GetMintEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.EqualValues(t, 2, events[0].ID)
	assert.EqualValues(t, 2, events[0].Quantity)
}

func TestTxCommitRejectsStaleTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	tx, err := repo.BeginMintTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateTokens(ctx, []entity.Token{{ID: 0, Owner: alice}}))
	require.NoError(t, tx.SetAllowlistCount(ctx, entity.AllowlistCount{Wallet: alice, Count: 1}))

	// token 0 is taken outside the transaction first
	require.NoError(t, repo.CreateTokens(ctx, []entity.Token{{ID: 0, Owner: bob}}))
	assert.Error(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	tokens, err := repo.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Token{{ID: 0, Owner: bob}}, tokens)
	counts, err := repo.GetAllowlistCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts, "a failed commit applies nothing")
}

func TestNestedTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tx, err := NewRepository().BeginMintTx(ctx)
	require.NoError(t, err)
	_, err = tx.BeginMintTx(ctx)
	assert.ErrorIs(t, err, ErrTxAlreadyExists)
}

func TestTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()

	assert.Error(t, repo.CreateTokens(ctx, []entity.Token{{ID: 1, Owner: alice}}))
	require.NoError(t, repo.CreateTokens(ctx, []entity.Token{{ID: 0, Owner: alice}}))
	require.NoError(t, repo.UpdateTokenOwner(ctx, entity.Token{ID: 0, Owner: bob}))
	assert.ErrorIs(t, repo.UpdateTokenOwner(ctx, entity.Token{ID: 1, Owner: bob}), errs.NotFound)

	tokens, err := repo.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.Token{{ID: 0, Owner: bob}}, tokens)
}

func TestGetMintEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRepository()
	for i, recipient := range []entity.Address{alice, bob, alice} {
		require.NoError(t, repo.CreateMintEvent(ctx, entity.MintEvent{
			Sender:       recipient,
			Recipient:    recipient,
			Quantity:     1,
			Payment:      new(uint256.Int),
			FirstTokenID: uint64(i),
		}))
	}

	events, err := repo.GetMintEvents(ctx, datagateway.GetMintEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.EqualValues(t, 3, events[0].ID, "newest first")

	events, err = repo.GetMintEvents(ctx, datagateway.GetMintEventsParams{Wallet: &alice})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.EqualValues(t, 2, events[0].FirstTokenID)
	assert.EqualValues(t, 0, events[1].FirstTokenID)

	events, err = repo.GetMintEvents(ctx, datagateway.GetMintEventsParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, bob, events[0].Recipient)

	events, err = repo.GetMintEvents(ctx, datagateway.GetMintEventsParams{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, events)
}
