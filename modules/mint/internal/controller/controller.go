package controller

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/datagateway"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/modules/mint/internal/funds"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/gaze-network/mintgate/modules/mint/internal/phase"
	"github.com/gaze-network/mintgate/modules/mint/internal/pricing"
	"github.com/gaze-network/mintgate/modules/mint/internal/splitter"
	"github.com/gaze-network/mintgate/modules/mint/internal/supply"
	"github.com/gaze-network/mintgate/modules/mint/internal/token"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

var ErrNotOwner = errs.Reject(errs.Unauthorized, "Ownable: caller is not the owner")

// Params is the deployment configuration of a ledger. Everything except the collection name,
// owner, account and shares is only used when no persisted state exists yet.
type Params struct {
	Name    string
	Symbol  string
	Owner   entity.Address
	Account entity.Address

	MaxSupply             uint64
	MaxAllowlistSupply    uint64
	MaxAllowlistPerWallet uint64

	Prices        entity.PriceTable
	AllowlistRoot merkle.Hash
	Shares        []entity.RevenueShare
}

// Controller is the single writer of a mint ledger. Every operation runs under one lock and
// either commits all its effects, in memory and in the data gateway, or none of them.
type Controller struct {
	// mu is always acquired before the bank lock.
	mu sync.Mutex

	dg       datagateway.MintDataGateway
	owner    entity.Address
	account  entity.Address
	root     merkle.Hash
	supply   *supply.Ledger
	phases   *phase.Controller
	pricing  *pricing.Policy
	tokens   *token.Collection
	bank     *funds.Bank
	splitter *splitter.Splitter
}

type snapshot struct {
	state    *entity.LedgerState
	counts   []entity.AllowlistCount
	tokens   []entity.Token
	balances []entity.Balance
}

func load(ctx context.Context, dg datagateway.MintReaderDataGateway) (snapshot, error) {
	var s snapshot
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		state, err := dg.GetLedgerState(gctx)
		if err != nil && !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "failed to get ledger state")
		}
		s.state = state
		return nil
	})
	group.Go(func() (err error) {
		s.counts, err = dg.GetAllowlistCounts(gctx)
		return errors.Wrap(err, "failed to get allowlist counts")
	})
	group.Go(func() (err error) {
		s.tokens, err = dg.GetTokens(gctx)
		return errors.Wrap(err, "failed to get tokens")
	})
	group.Go(func() (err error) {
		s.balances, err = dg.GetBalances(gctx)
		return errors.Wrap(err, "failed to get balances")
	})
	if err := group.Wait(); err != nil {
		return snapshot{}, errors.WithStack(err)
	}
	return s, nil
}

// New restores a ledger from the data gateway. When nothing has been persisted yet the ledger
// starts from params and its initial state is saved.
func New(ctx context.Context, dg datagateway.MintDataGateway, params Params) (*Controller, error) {
	if params.Owner == entity.ZeroAddress {
		return nil, errors.Wrap(errs.InvalidArgument, "owner is the zero address")
	}
	if params.Account == entity.ZeroAddress {
		return nil, errors.Wrap(errs.InvalidArgument, "account is the zero address")
	}
	split, err := splitter.New(params.Shares)
	if err != nil {
		return nil, errors.Wrap(err, "invalid revenue shares")
	}

	s, err := load(ctx, dg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	seeded := s.state == nil
	state := s.state
	if seeded {
		state = &entity.LedgerState{
			MaxSupply:             params.MaxSupply,
			MaxAllowlistSupply:    params.MaxAllowlistSupply,
			MaxAllowlistPerWallet: params.MaxAllowlistPerWallet,
			Prices:                params.Prices,
			AllowlistRoot:         params.AllowlistRoot,
		}
	}
	if state.Supply.TotalIssued != uint64(len(s.tokens)) {
		return nil, errors.Errorf("ledger state has %d issued tokens but %d are stored", state.Supply.TotalIssued, len(s.tokens))
	}

	ledger, err := supply.NewLedger(state.MaxSupply, state.MaxAllowlistSupply, state.Supply)
	if err != nil {
		return nil, errors.Wrap(err, "invalid supply state")
	}
	tokens, err := token.NewCollection(params.Name, params.Symbol, s.tokens)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token state")
	}

	c := &Controller{
		dg:       dg,
		owner:    params.Owner,
		account:  params.Account,
		root:     state.AllowlistRoot,
		supply:   ledger,
		phases:   phase.NewController(state.Phases, state.MaxAllowlistPerWallet, s.counts),
		pricing:  pricing.NewPolicy(state.Prices),
		tokens:   tokens,
		bank:     funds.NewBank(params.Account, s.balances),
		splitter: split,
	}

	if seeded {
		if err := dg.SaveLedgerState(ctx, c.stateLocked()); err != nil {
			return nil, errors.Wrap(err, "failed to save initial ledger state")
		}
		logger.InfoContext(ctx, "Initialized new mint ledger",
			slogx.Uint64("maxSupply", state.MaxSupply),
			slogx.Uint64("maxAllowlistSupply", state.MaxAllowlistSupply),
		)
	} else {
		logger.InfoContext(ctx, "Restored mint ledger",
			slogx.Uint64("totalSupply", state.Supply.TotalIssued),
			slogx.Int("wallets", len(s.counts)),
			slogx.Int("balances", len(s.balances)),
		)
	}
	return c, nil
}

// stateLocked returns the persisted snapshot of the current in-memory state.
func (c *Controller) stateLocked() entity.LedgerState {
	return entity.LedgerState{
		Supply:                c.supply.Counters(),
		MaxSupply:             c.supply.MaxSupply(),
		MaxAllowlistSupply:    c.supply.MaxAllowlistSupply(),
		MaxAllowlistPerWallet: c.phases.MaxPerWallet(),
		Phases:                c.phases.Flags(),
		Prices:                c.pricing.Prices(),
		AllowlistRoot:         c.root,
	}
}

func (c *Controller) requireOwner(caller entity.Address) error {
	if caller != c.owner {
		return errors.WithStack(ErrNotOwner)
	}
	return nil
}

// SetReceiver registers a hook called when addr is paid by a withdrawal. The hook may reject the
// funds, which aborts the whole withdrawal.
func (c *Controller) SetReceiver(addr entity.Address, receiver funds.Receiver) {
	c.bank.SetReceiver(addr, receiver)
}

func rejected(ctx context.Context, op string, err error) error {
	logger.DebugContext(ctx, "Rejected ledger operation", slogx.String("op", op), slogx.Error(err))
	return errors.WithStack(err)
}

func rollback(ctx context.Context, tx datagateway.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to rollback mint transaction", err)
	}
}
