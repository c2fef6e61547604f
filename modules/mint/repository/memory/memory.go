package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/datagateway"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
)

var _ datagateway.MintDataGateway = (*Repository)(nil)

var ErrTxAlreadyExists = errors.New("Transaction already exists. Call Commit() or Rollback() first.")

type store struct {
	state       *entity.LedgerState
	counts      map[entity.Address]uint64
	tokens      []entity.Token
	balances    map[entity.Address]*uint256.Int
	events      []entity.MintEvent
	withdrawals []entity.Withdrawal
}

func newStore() *store {
	return &store{
		counts:   make(map[entity.Address]uint64),
		balances: make(map[entity.Address]*uint256.Int),
	}
}

// clone deep-copies the store. It is only used to build the view of an open transaction.
func (s *store) clone() *store {
	c := &store{
		counts:      make(map[entity.Address]uint64, len(s.counts)),
		tokens:      slices.Clone(s.tokens),
		balances:    make(map[entity.Address]*uint256.Int, len(s.balances)),
		events:      slices.Clone(s.events),
		withdrawals: slices.Clone(s.withdrawals),
	}
	if s.state != nil {
		state := cloneState(*s.state)
		c.state = &state
	}
	for k, v := range s.counts {
		c.counts[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v.Clone()
	}
	return c
}

func cloneState(state entity.LedgerState) entity.LedgerState {
	if state.Prices.AllowlistPrice != nil {
		state.Prices.AllowlistPrice = state.Prices.AllowlistPrice.Clone()
	}
	if state.Prices.PublicPrice != nil {
		state.Prices.PublicPrice = state.Prices.PublicPrice.Clone()
	}
	return state
}

// changes are writes staged against a store. Only what a write touches is kept, so staging and
// applying cost the size of the change, not of the store.
type changes struct {
	state       *entity.LedgerState
	counts      map[entity.Address]uint64
	tokens      []entity.Token
	owners      map[uint64]entity.Address
	balances    map[entity.Address]*uint256.Int
	events      []entity.MintEvent
	withdrawals []entity.Withdrawal
}

func newChanges() *changes {
	return &changes{
		counts:   make(map[entity.Address]uint64),
		owners:   make(map[uint64]entity.Address),
		balances: make(map[entity.Address]*uint256.Int),
	}
}

// apply writes c into s. s is left untouched when c no longer fits it.
func (c *changes) apply(s *store) error {
	if len(c.tokens) > 0 && c.tokens[0].ID != uint64(len(s.tokens)) {
		return errors.Errorf("token %d already exists or is out of sequence", c.tokens[0].ID)
	}
	for id := range c.owners {
		if id >= uint64(len(s.tokens)) {
			return errors.Wrapf(errs.NotFound, "token %d", id)
		}
	}

	if c.state != nil {
		state := cloneState(*c.state)
		s.state = &state
	}
	for wallet, count := range c.counts {
		if count == 0 {
			delete(s.counts, wallet)
			continue
		}
		s.counts[wallet] = count
	}
	for id, owner := range c.owners {
		s.tokens[id].Owner = owner
	}
	s.tokens = append(s.tokens, c.tokens...)
	for addr, amount := range c.balances {
		s.balances[addr] = amount.Clone()
	}
	for _, event := range c.events {
		event.ID = int64(len(s.events) + 1)
		s.events = append(s.events, event)
	}
	for _, withdrawal := range c.withdrawals {
		withdrawal.ID = int64(len(s.withdrawals) + 1)
		s.withdrawals = append(s.withdrawals, withdrawal)
	}
	return nil
}

type shared struct {
	mu        sync.RWMutex
	committed *store
}

// Repository keeps the mint data in process memory. A transaction stages its writes and applies
// them to the committed data on Commit, so transactions must not overlap.
type Repository struct {
	shared *shared
	tx     *changes
	closed bool
}

func NewRepository() *Repository {
	return &Repository{
		shared: &shared{committed: newStore()},
	}
}

// read runs fn against the data visible to this repository. Inside a transaction that is the
// committed data with the staged writes applied to a copy.
func (r *Repository) read(fn func(s *store)) {
	r.shared.mu.RLock()
	defer r.shared.mu.RUnlock()
	if r.tx == nil {
		fn(r.shared.committed)
		return
	}
	view := r.shared.committed.clone()
	if err := r.tx.apply(view); err != nil {
		// writes were checked against the committed data when staged
		fn(r.shared.committed)
		return
	}
	fn(view)
}

// write stages fn's changes in the transaction, or applies them immediately outside one. fn sees
// the committed data read-only.
func (r *Repository) write(fn func(base *store, c *changes) error) error {
	if r.closed {
		return errors.New("transaction is closed")
	}
	if r.tx != nil {
		r.shared.mu.RLock()
		defer r.shared.mu.RUnlock()
		return fn(r.shared.committed, r.tx)
	}
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	c := newChanges()
	if err := fn(r.shared.committed, c); err != nil {
		return err
	}
	return c.apply(r.shared.committed)
}

func (r *Repository) BeginMintTx(ctx context.Context) (datagateway.MintDataGatewayWithTx, error) {
	if r.tx != nil {
		return nil, errors.WithStack(ErrTxAlreadyExists)
	}
	return &Repository{
		shared: r.shared,
		tx:     newChanges(),
	}, nil
}

func (r *Repository) Commit(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	if err := r.tx.apply(r.shared.committed); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	r.tx = nil
	r.closed = true
	return nil
}

func (r *Repository) Rollback(ctx context.Context) error {
	if r.tx == nil {
		return nil
	}
	r.tx = nil
	r.closed = true
	return nil
}

func (r *Repository) GetLedgerState(ctx context.Context) (state *entity.LedgerState, err error) {
	r.read(func(s *store) {
		if s.state == nil {
			err = errors.WithStack(errs.NotFound)
			return
		}
		cloned := cloneState(*s.state)
		state = &cloned
	})
	return state, err
}

func (r *Repository) GetAllowlistCounts(ctx context.Context) (counts []entity.AllowlistCount, err error) {
	r.read(func(s *store) {
		for wallet, count := range s.counts {
			counts = append(counts, entity.AllowlistCount{Wallet: wallet, Count: count})
		}
	})
	return counts, nil
}

func (r *Repository) GetTokens(ctx context.Context) (tokens []entity.Token, err error) {
	r.read(func(s *store) {
		tokens = slices.Clone(s.tokens)
	})
	return tokens, nil
}

func (r *Repository) GetBalances(ctx context.Context) (balances []entity.Balance, err error) {
	r.read(func(s *store) {
		for addr, amount := range s.balances {
			balances = append(balances, entity.Balance{Address: addr, Amount: amount.Clone()})
		}
	})
	return balances, nil
}

func (r *Repository) GetMintEvents(ctx context.Context, arg datagateway.GetMintEventsParams) (events []entity.MintEvent, err error) {
	r.read(func(s *store) {
		filtered := lo.Filter(s.events, func(e entity.MintEvent, _ int) bool {
			return arg.Wallet == nil || e.Sender == *arg.Wallet || e.Recipient == *arg.Wallet
		})
		slices.Reverse(filtered)
		events = page(filtered, arg.Limit, arg.Offset)
	})
	return events, nil
}

func (r *Repository) GetWithdrawals(ctx context.Context, limit, offset int32) (withdrawals []entity.Withdrawal, err error) {
	r.read(func(s *store) {
		all := slices.Clone(s.withdrawals)
		slices.Reverse(all)
		withdrawals = page(all, limit, offset)
	})
	return withdrawals, nil
}

func page[T any](items []T, limit, offset int32) []T {
	if offset < 0 || int(offset) >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items
}

func (r *Repository) SaveLedgerState(ctx context.Context, state entity.LedgerState) error {
	return r.write(func(_ *store, c *changes) error {
		cloned := cloneState(state)
		if cloned.UpdatedAt.IsZero() {
			cloned.UpdatedAt = time.Now().UTC()
		}
		c.state = &cloned
		return nil
	})
}

func (r *Repository) SetAllowlistCount(ctx context.Context, count entity.AllowlistCount) error {
	return r.write(func(_ *store, c *changes) error {
		c.counts[count.Wallet] = count.Count
		return nil
	})
}

func (r *Repository) CreateTokens(ctx context.Context, tokens []entity.Token) error {
	return r.write(func(base *store, c *changes) error {
		next := uint64(len(base.tokens) + len(c.tokens))
		for i, token := range tokens {
			if token.ID != next+uint64(i) {
				return errors.Errorf("token %d already exists or is out of sequence", token.ID)
			}
		}
		c.tokens = append(c.tokens, tokens...)
		return nil
	})
}

func (r *Repository) UpdateTokenOwner(ctx context.Context, token entity.Token) error {
	return r.write(func(base *store, c *changes) error {
		committed := uint64(len(base.tokens))
		switch {
		case token.ID < committed:
			c.owners[token.ID] = token.Owner
		case token.ID < committed+uint64(len(c.tokens)):
			c.tokens[token.ID-committed] = token
		default:
			return errors.Wrapf(errs.NotFound, "token %d", token.ID)
		}
		return nil
	})
}

func (r *Repository) SetBalances(ctx context.Context, balances []entity.Balance) error {
	return r.write(func(_ *store, c *changes) error {
		for _, balance := range balances {
			c.balances[balance.Address] = balance.Amount.Clone()
		}
		return nil
	})
}

func (r *Repository) CreateMintEvent(ctx context.Context, event entity.MintEvent) error {
	return r.write(func(_ *store, c *changes) error {
		if event.Payment != nil {
			event.Payment = event.Payment.Clone()
		}
		c.events = append(c.events, event)
		return nil
	})
}

func (r *Repository) CreateWithdrawal(ctx context.Context, withdrawal entity.Withdrawal) error {
	return r.write(func(_ *store, c *changes) error {
		c.withdrawals = append(c.withdrawals, withdrawal)
		return nil
	})
}
