package merkle

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"golang.org/x/crypto/sha3"
)

const HashSize = 32

// Hash is a keccak-256 digest: a leaf, an inner node or a root.
type Hash [HashSize]byte

var ZeroHash Hash

func (h Hash) String() string {
	return ethtypes.HexBytes0xPrefix(h[:]).String()
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*h = parsed
	return nil
}

// ParseHash parses a 32-byte hex string, with or without 0x prefix.
func ParseHash(s string) (Hash, error) {
	b, err := ethtypes.NewHexBytes0xPrefix(s)
	if err != nil {
		return Hash{}, errors.Wrap(errs.InvalidArgument, "invalid hex")
	}
	if len(b) != HashSize {
		return Hash{}, errors.Wrapf(errs.InvalidArgument, "hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

func ParseProof(proof []string) ([]Hash, error) {
	hashes := make([]Hash, 0, len(proof))
	for i, s := range proof {
		h, err := ParseHash(s)
		if err != nil {
			return nil, errors.Wrapf(err, "proof[%d]", i)
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

func keccak256(data ...[]byte) Hash {
	hasher := sha3.NewLegacyKeccak256()
	for _, d := range data {
		_, _ = hasher.Write(d)
	}
	var h Hash
	hasher.Sum(h[:0])
	return h
}

// LeafHash is the leaf committed for an address: keccak256 over its 20 raw bytes.
func LeafHash(address entity.Address) Hash {
	return keccak256(address[:])
}

// HashPair hashes two nodes in ascending byte order, so the result does not depend on which
// side of the tree either node sits.
func HashPair(a, b Hash) Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return keccak256(a[:], b[:])
}

// ProcessProof folds the proof path upward starting from leaf and returns the resulting root.
func ProcessProof(leaf Hash, proof []Hash) Hash {
	computed := leaf
	for _, sibling := range proof {
		computed = HashPair(computed, sibling)
	}
	return computed
}

// Verify reports whether proof proves that address is a member of the set committed by root.
func Verify(root Hash, address entity.Address, proof []Hash) bool {
	return ProcessProof(LeafHash(address), proof) == root
}
