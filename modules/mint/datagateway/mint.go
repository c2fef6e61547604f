package datagateway

import (
	"context"

	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
)

type MintDataGateway interface {
	// BeginMintTx returns a new MintDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginMintTx(ctx context.Context) (MintDataGatewayWithTx, error)

	MintReaderDataGateway
	MintWriterDataGateway
}

type MintDataGatewayWithTx interface {
	MintDataGateway
	Tx
}

type MintReaderDataGateway interface {
	// GetLedgerState returns errs.NotFound if the ledger has never been saved.
	GetLedgerState(ctx context.Context) (*entity.LedgerState, error)
	GetAllowlistCounts(ctx context.Context) ([]entity.AllowlistCount, error)
	// GetTokens returns every token ordered by id.
	GetTokens(ctx context.Context) ([]entity.Token, error)
	GetBalances(ctx context.Context) ([]entity.Balance, error)
	// GetMintEvents returns the newest events first.
	GetMintEvents(ctx context.Context, arg GetMintEventsParams) ([]entity.MintEvent, error)
	// GetWithdrawals returns the newest withdrawals first.
	GetWithdrawals(ctx context.Context, limit, offset int32) ([]entity.Withdrawal, error)
}

type MintWriterDataGateway interface {
	SaveLedgerState(ctx context.Context, state entity.LedgerState) error
	SetAllowlistCount(ctx context.Context, count entity.AllowlistCount) error
	CreateTokens(ctx context.Context, tokens []entity.Token) error
	UpdateTokenOwner(ctx context.Context, token entity.Token) error
	SetBalances(ctx context.Context, balances []entity.Balance) error
	CreateMintEvent(ctx context.Context, event entity.MintEvent) error
	CreateWithdrawal(ctx context.Context, withdrawal entity.Withdrawal) error
}

type GetMintEventsParams struct {
	// Wallet filters events by sender or recipient when set.
	Wallet *entity.Address
	Limit  int32
	Offset int32
}
