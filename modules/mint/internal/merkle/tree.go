package merkle

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// Tree is a sorted-pair keccak tree over address leaves. Leaves keep their input order; a level
// with an odd number of nodes carries its last node up unchanged.
type Tree struct {
	// levels[0] are the leaves, the last level holds the root.
	levels [][]Hash
}

func NewTree(addresses []entity.Address) (*Tree, error) {
	if len(addresses) == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "allowlist is empty")
	}
	leaves := make([]Hash, len(addresses))
	for i, addr := range addresses {
		leaves[i] = LeafHash(addr)
	}

	levels := [][]Hash{leaves}
	for current := leaves; len(current) > 1; {
		next := make([]Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				next = append(next, current[i])
				continue
			}
			next = append(next, HashPair(current[i], current[i+1]))
		}
		levels = append(levels, next)
		current = next
	}
	return &Tree{levels: levels}, nil
}

func (t *Tree) Root() Hash {
	return t.levels[len(t.levels)-1][0]
}

func (t *Tree) Leaves() []Hash {
	return t.levels[0]
}

// Proof returns the sibling path of the first leaf committed for address.
func (t *Tree) Proof(address entity.Address) ([]Hash, error) {
	leaf := LeafHash(address)
	index := -1
	for i, l := range t.levels[0] {
		if l == leaf {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, errors.Wrapf(errs.NotFound, "address %s is not in the allowlist", address.String())
	}

	proof := make([]Hash, 0, len(t.levels)-1)
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := index ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		index /= 2
	}
	return proof, nil
}

// Allowlist is the off-chain membership document.
type Allowlist struct {
	Pre []string `json:"pre"`
}

// ParseAllowlist decodes a {"pre": [...]} document into addresses, keeping input order.
func ParseAllowlist(data []byte) ([]entity.Address, error) {
	var list Allowlist
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrap(errs.InvalidArgument, "malformed allowlist document")
	}
	addresses := make([]entity.Address, 0, len(list.Pre))
	for i, s := range list.Pre {
		addr, err := ethtypes.NewAddress(s)
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "pre[%d]: invalid address %q", i, s)
		}
		addresses = append(addresses, *addr)
	}
	return addresses, nil
}
