package entity

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// Address is a 20-byte account address.
type Address = ethtypes.Address0xHex

// ZeroAddress is the null address.
var ZeroAddress = Address{}

type Category int32

const (
	CategoryInternal Category = iota
	CategoryAllowlist
	CategoryPublic
)

func (c Category) String() string {
	switch c {
	case CategoryInternal:
		return "internal"
	case CategoryAllowlist:
		return "allowlist"
	case CategoryPublic:
		return "public"
	}
	return "unknown"
}

type SupplyCounters struct {
	TotalIssued     uint64
	AllowlistIssued uint64
	InternalIssued  uint64
}

type PhaseFlags struct {
	AllowlistActive bool
	PublicActive    bool
}

type PriceTable struct {
	AllowlistPrice *uint256.Int
	PublicPrice    *uint256.Int
}

// LedgerState is the persisted snapshot of everything the controller owns except per-wallet
// counters, tokens and balances, which are stored row by row.
type LedgerState struct {
	Supply                SupplyCounters
	MaxSupply             uint64
	MaxAllowlistSupply    uint64
	MaxAllowlistPerWallet uint64
	Phases                PhaseFlags
	Prices                PriceTable
	AllowlistRoot         [32]byte
	UpdatedAt             time.Time
}

type AllowlistCount struct {
	Wallet Address
	Count  uint64
}

type Token struct {
	ID    uint64
	Owner Address
}

type Balance struct {
	Address Address
	Amount  *uint256.Int
}

type MintEvent struct {
	ID           int64
	Category     Category
	Sender       Address
	Recipient    Address
	Quantity     uint64
	Payment      *uint256.Int
	FirstTokenID uint64
	CreatedAt    time.Time
}

type Payout struct {
	Recipient Address
	Amount    *uint256.Int
}

type Withdrawal struct {
	ID        int64
	Balance   *uint256.Int
	Payouts   []Payout
	CreatedAt time.Time
}

// RevenueShare is a recipient's fixed fraction of every withdrawal, Numerator/ShareDenominator.
type RevenueShare struct {
	Recipient Address
	Numerator uint64
}

// ShareDenominator expresses shares in thousandths of a percent.
const ShareDenominator = 100_000
