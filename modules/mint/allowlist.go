package mint

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/samber/lo"
)

// AllowlistRoot returns the merkle root of an allowlist document of the form {"pre": [...]}.
func AllowlistRoot(document []byte) (string, error) {
	tree, err := allowlistTree(document)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return tree.Root().String(), nil
}

// AllowlistProof returns the proof that address is a member of the allowlist document.
func AllowlistProof(document []byte, address string) ([]string, error) {
	tree, err := allowlistTree(document)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	addr, err := ethtypes.NewAddress(address)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid address %q", address)
	}
	proof, err := tree.Proof(*addr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return lo.Map(proof, func(h merkle.Hash, _ int) string { return h.String() }), nil
}

func allowlistTree(document []byte) (*merkle.Tree, error) {
	addresses, err := merkle.ParseAllowlist(document)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	tree, err := merkle.NewTree(addresses)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return tree, nil
}
