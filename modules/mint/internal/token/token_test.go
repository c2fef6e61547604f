package token

import (
	"testing"

	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = *ethtypes.MustNewAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	bob   = *ethtypes.MustNewAddress("0x70997970C51812dc3A010C7d01b50e20d17dc79C")
)

func newCollection(t *testing.T) *Collection {
	t.Helper()
	c, err := NewCollection("Test", "TESTSYMBOL", nil)
	require.NoError(t, err)
	return c
}

func TestIssue(t *testing.T) {
	t.Parallel()
	c := newCollection(t)

	first, err := c.Issue(alice, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 0, first)

	first, err = c.Issue(bob, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, first)

	assert.EqualValues(t, 5, c.TotalSupply())
	assert.EqualValues(t, 3, c.BalanceOf(alice))
	assert.Equal(t, []uint64{3, 4}, c.TokensOf(bob))

	owner, err := c.OwnerOf(4)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	_, err = c.OwnerOf(5)
	assert.ErrorIs(t, err, ErrOwnerQueryNonexistentToken)
	assert.EqualError(t, err, "OwnerQueryForNonexistentToken()")
}

func TestIssueRejections(t *testing.T) {
	t.Parallel()
	c := newCollection(t)

	_, err := c.Issue(entity.ZeroAddress, 1)
	assert.ErrorIs(t, err, ErrMintToZeroAddress)
	assert.ErrorIs(t, err, errs.TransferToZeroAddress)

	_, err = c.Issue(alice, 0)
	assert.ErrorIs(t, err, ErrMintZeroQuantity)
	assert.EqualError(t, err, "MintZeroQuantity()")

	assert.Zero(t, c.TotalSupply())
}

func TestTransferFrom(t *testing.T) {
	t.Parallel()
	c := newCollection(t)
	_, err := c.Issue(alice, 2)
	require.NoError(t, err)

	testcases := []struct {
		name     string
		caller   entity.Address
		from     entity.Address
		to       entity.Address
		id       uint64
		expected error
	}{
		{"to_zero_address", alice, alice, entity.ZeroAddress, 0, ErrTransferToZeroAddress},
		{"nonexistent", alice, alice, bob, 9, ErrOwnerQueryNonexistentToken},
		{"incorrect_owner", bob, bob, alice, 0, ErrTransferFromIncorrectOwner},
		{"not_owner", bob, alice, bob, 0, ErrCallerNotOwnerNorApproved},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, c.TransferFrom(tc.caller, tc.from, tc.to, tc.id), tc.expected)
		})
	}

	// rejected transfers change nothing and never reduce supply
	assert.EqualValues(t, 2, c.TotalSupply())
	assert.EqualValues(t, 2, c.BalanceOf(alice))

	require.NoError(t, c.TransferFrom(alice, alice, bob, 1))
	owner, err := c.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	assert.EqualValues(t, 1, c.BalanceOf(alice))
	assert.EqualValues(t, 1, c.BalanceOf(bob))
	assert.EqualValues(t, 2, c.TotalSupply())
}

func TestNewCollectionRestoresTokens(t *testing.T) {
	t.Parallel()
	c, err := NewCollection("Test", "TESTSYMBOL", []entity.Token{{ID: 0, Owner: alice}, {ID: 1, Owner: bob}, {ID: 2, Owner: alice}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, c.NextTokenID())
	assert.EqualValues(t, 2, c.BalanceOf(alice))

	_, err = NewCollection("Test", "TESTSYMBOL", []entity.Token{{ID: 1, Owner: alice}})
	assert.ErrorIs(t, err, errs.InvalidArgument)
}
