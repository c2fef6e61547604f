package token

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
)

var (
	ErrMintToZeroAddress          = errs.Reject(errs.TransferToZeroAddress, "MintToZeroAddress()")
	ErrMintZeroQuantity           = errs.Reject(errs.InvalidArgument, "MintZeroQuantity()")
	ErrTransferToZeroAddress      = errs.Reject(errs.TransferToZeroAddress, "TransferToZeroAddress()")
	ErrOwnerQueryNonexistentToken = errs.Reject(errs.NotFound, "OwnerQueryForNonexistentToken()")
	ErrTransferFromIncorrectOwner = errs.Reject(errs.InvalidArgument, "TransferFromIncorrectOwner()")
	ErrCallerNotOwnerNorApproved  = errs.Reject(errs.Unauthorized, "TransferCallerNotOwnerNorApproved()")
)

// Collection is the token ownership registry: sequential ids starting at zero, no burn.
type Collection struct {
	name     string
	symbol   string
	owners   []entity.Address
	balances map[entity.Address]uint64
}

func NewCollection(name, symbol string, tokens []entity.Token) (*Collection, error) {
	c := &Collection{
		name:     name,
		symbol:   symbol,
		owners:   make([]entity.Address, len(tokens)),
		balances: make(map[entity.Address]uint64),
	}
	for i, token := range tokens {
		if token.ID != uint64(i) {
			return nil, errors.Wrapf(errs.InvalidArgument, "token ids are not sequential at %d", token.ID)
		}
		c.owners[i] = token.Owner
		c.balances[token.Owner]++
	}
	return c, nil
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Symbol() string {
	return c.symbol
}

func (c *Collection) TotalSupply() uint64 {
	return uint64(len(c.owners))
}

// NextTokenID is the id the next issued token gets.
func (c *Collection) NextTokenID() uint64 {
	return uint64(len(c.owners))
}

// CheckIssue validates an issuance without applying it and returns the tokens it would create.
func (c *Collection) CheckIssue(to entity.Address, quantity uint64) ([]entity.Token, error) {
	if to == entity.ZeroAddress {
		return nil, errors.WithStack(ErrMintToZeroAddress)
	}
	if quantity == 0 {
		return nil, errors.WithStack(ErrMintZeroQuantity)
	}
	first := c.NextTokenID()
	tokens := make([]entity.Token, quantity)
	for i := range tokens {
		tokens[i] = entity.Token{ID: first + uint64(i), Owner: to}
	}
	return tokens, nil
}

// Issue mints quantity tokens to to and returns the first new token id.
func (c *Collection) Issue(to entity.Address, quantity uint64) (uint64, error) {
	tokens, err := c.CheckIssue(to, quantity)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	for _, token := range tokens {
		c.owners = append(c.owners, token.Owner)
	}
	c.balances[to] += quantity
	return tokens[0].ID, nil
}

func (c *Collection) OwnerOf(id uint64) (entity.Address, error) {
	if id >= uint64(len(c.owners)) {
		return entity.Address{}, errors.WithStack(ErrOwnerQueryNonexistentToken)
	}
	return c.owners[id], nil
}

func (c *Collection) BalanceOf(owner entity.Address) uint64 {
	return c.balances[owner]
}

func (c *Collection) TokensOf(owner entity.Address) []uint64 {
	ids := make([]uint64, 0, c.balances[owner])
	for id, o := range c.owners {
		if o == owner {
			ids = append(ids, uint64(id))
		}
	}
	return ids
}

// CheckTransfer validates a transfer of token id from from to to requested by caller.
func (c *Collection) CheckTransfer(caller, from, to entity.Address, id uint64) error {
	owner, err := c.OwnerOf(id)
	if err != nil {
		return errors.WithStack(err)
	}
	if owner != from {
		return errors.WithStack(ErrTransferFromIncorrectOwner)
	}
	if caller != owner {
		return errors.WithStack(ErrCallerNotOwnerNorApproved)
	}
	if to == entity.ZeroAddress {
		return errors.WithStack(ErrTransferToZeroAddress)
	}
	return nil
}

func (c *Collection) TransferFrom(caller, from, to entity.Address, id uint64) error {
	if err := c.CheckTransfer(caller, from, to, id); err != nil {
		return errors.WithStack(err)
	}
	c.owners[id] = to
	c.balances[from]--
	if c.balances[from] == 0 {
		delete(c.balances, from)
	}
	c.balances[to]++
	return nil
}
