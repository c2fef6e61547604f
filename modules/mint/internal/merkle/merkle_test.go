package merkle

import (
	"testing"

	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	addr0 = *ethtypes.MustNewAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	addr1 = *ethtypes.MustNewAddress("0x70997970C51812dc3A010C7d01b50e20d17dc79C")
	addr2 = *ethtypes.MustNewAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	addr3 = *ethtypes.MustNewAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
)

func mustHash(t *testing.T, s string) Hash {
	t.Helper()
	h, err := ParseHash(s)
	require.NoError(t, err)
	return h
}

func TestLeafHash(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		address  entity.Address
		expected string
	}{
		{addr0, "0xe9707d0e6171f728f7473c24cc0432a9b07eaaf1efed6a137a4a8c12c79552d9"},
		{addr1, "0x9d7b058876c628c7b534d520a756759c580c5af2668df9282022aa981bf116fa"},
		{addr2, "0x8a3552d60a98e0ade765adddad0a2e420ca9b1eef5f326ba7ab860bb4ea72c94"},
		{addr3, "0x1ebaa930b8e9130423c183bf38b0564b0103180b7dad301013b18e59880541ae"},
	}
	for _, tc := range testcases {
		t.Run(tc.address.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, LeafHash(tc.address).String())
		})
	}
}

func TestHashPairIsOrderIndependent(t *testing.T) {
	t.Parallel()
	l0, l1 := LeafHash(addr0), LeafHash(addr1)
	expected := "0x2fedc732923ab373161628a2e6a943bccd91104e4a8c6619dec829ca4ebda426"
	assert.Equal(t, expected, HashPair(l0, l1).String())
	assert.Equal(t, expected, HashPair(l1, l0).String())
}

func TestTree(t *testing.T) {
	t.Parallel()
	t.Run("four_leaves", func(t *testing.T) {
		tree, err := NewTree([]entity.Address{addr0, addr1, addr2, addr3})
		require.NoError(t, err)
		assert.Equal(t, "0xed2399eceb3708a5be191ab669d68fc18de03ad13f98ed2bac4579483d2d4dd7", tree.Root().String())

		proof, err := tree.Proof(addr2)
		require.NoError(t, err)
		assert.Equal(t, []Hash{
			mustHash(t, "0x1ebaa930b8e9130423c183bf38b0564b0103180b7dad301013b18e59880541ae"),
			mustHash(t, "0x2fedc732923ab373161628a2e6a943bccd91104e4a8c6619dec829ca4ebda426"),
		}, proof)
	})
	t.Run("odd_leaf_carried_up", func(t *testing.T) {
		tree, err := NewTree([]entity.Address{addr0, addr1, addr2})
		require.NoError(t, err)
		assert.Equal(t, "0x36542828071039a9ba11341dac4ca16f93917d825b5f5acb77fdaa4d491ad256", tree.Root().String())

		// the unpaired leaf skips the bottom level
		proof, err := tree.Proof(addr2)
		require.NoError(t, err)
		assert.Equal(t, []Hash{mustHash(t, "0x2fedc732923ab373161628a2e6a943bccd91104e4a8c6619dec829ca4ebda426")}, proof)
	})
	t.Run("single_leaf", func(t *testing.T) {
		tree, err := NewTree([]entity.Address{addr0})
		require.NoError(t, err)
		assert.Equal(t, LeafHash(addr0), tree.Root())

		proof, err := tree.Proof(addr0)
		require.NoError(t, err)
		assert.Empty(t, proof)
		assert.True(t, Verify(tree.Root(), addr0, proof))
	})
	t.Run("empty", func(t *testing.T) {
		_, err := NewTree(nil)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("not_a_member", func(t *testing.T) {
		tree, err := NewTree([]entity.Address{addr0, addr1})
		require.NoError(t, err)
		_, err = tree.Proof(addr3)
		assert.ErrorIs(t, err, errs.NotFound)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()
	members := []entity.Address{addr0, addr1, addr2}
	tree, err := NewTree(members)
	require.NoError(t, err)
	root := tree.Root()

	for _, member := range members {
		proof, err := tree.Proof(member)
		require.NoError(t, err)
		assert.True(t, Verify(root, member, proof), "member %s", member.String())
	}

	t.Run("outsider_with_member_proof", func(t *testing.T) {
		proof, err := tree.Proof(addr0)
		require.NoError(t, err)
		assert.False(t, Verify(root, addr3, proof))
	})
	t.Run("tampered_proof", func(t *testing.T) {
		proof, err := tree.Proof(addr1)
		require.NoError(t, err)
		proof[0][0] ^= 0x01
		assert.False(t, Verify(root, addr1, proof))
	})
	t.Run("rotated_root", func(t *testing.T) {
		rotated, err := NewTree([]entity.Address{addr1, addr2})
		require.NoError(t, err)
		proof, err := tree.Proof(addr0)
		require.NoError(t, err)
		assert.False(t, Verify(rotated.Root(), addr0, proof))
	})
	t.Run("zero_root", func(t *testing.T) {
		assert.False(t, Verify(ZeroHash, addr0, nil))
	})
}

func TestParseHash(t *testing.T) {
	t.Parallel()
	h, err := ParseHash("ed2399eceb3708a5be191ab669d68fc18de03ad13f98ed2bac4579483d2d4dd7")
	require.NoError(t, err)
	assert.Equal(t, "0xed2399eceb3708a5be191ab669d68fc18de03ad13f98ed2bac4579483d2d4dd7", h.String())

	for _, invalid := range []string{"", "0x1234", "0xzz", "0xed2399eceb3708a5be191ab669d68fc18de03ad13f98ed2bac4579483d2d4dd700"} {
		_, err := ParseHash(invalid)
		assert.ErrorIs(t, err, errs.InvalidArgument, "input %q", invalid)
	}
}

func TestParseAllowlist(t *testing.T) {
	t.Parallel()
	addresses, err := ParseAllowlist([]byte(`{"pre": ["0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "0x70997970c51812dc3a010c7d01b50e20d17dc79c"]}`))
	require.NoError(t, err)
	assert.Equal(t, []entity.Address{addr0, addr1}, addresses)

	_, err = ParseAllowlist([]byte(`{"pre": ["0x1234"]}`))
	assert.ErrorIs(t, err, errs.InvalidArgument)

	_, err = ParseAllowlist([]byte(`not json`))
	assert.ErrorIs(t, err, errs.InvalidArgument)
}
