package config

import "github.com/gaze-network/mintgate/internal/postgres"

const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
)

type Config struct {
	Database   string          `mapstructure:"database"` // memory or postgres. Default is memory
	Postgres   postgres.Config `mapstructure:"postgres"`
	Collection Collection      `mapstructure:"collection"`

	// Owner is the admin account. Admin HTTP routes act as this account.
	Owner string `mapstructure:"owner"`
	// Account is the address of the ledger's own account that receives mint payments.
	Account string `mapstructure:"account"`

	MaxSupply             uint64 `mapstructure:"max_supply"`
	MaxAllowlistSupply    uint64 `mapstructure:"max_allowlist_supply"`
	MaxAllowlistPerWallet uint64 `mapstructure:"max_allowlist_per_wallet"`

	// Prices are decimal ether amounts, e.g. "0.15".
	AllowlistPrice string `mapstructure:"allowlist_price"`
	PublicPrice    string `mapstructure:"public_price"`

	// AllowlistRoot is an optional 0x-prefixed 32-byte merkle root.
	AllowlistRoot string `mapstructure:"allowlist_root"`

	// Splits is the ordered payout table. DefaultSplits is used when it is empty.
	Splits []Split `mapstructure:"splits"`
}

type Collection struct {
	Name   string `mapstructure:"name"`
	Symbol string `mapstructure:"symbol"`
}

type Split struct {
	Recipient string `mapstructure:"recipient"`
	// Percent is a decimal percentage with at most 3 fractional digits, e.g. "15.625".
	Percent string `mapstructure:"percent"`
}

func Default() Config {
	return Config{
		Database: DatabaseMemory,
		Collection: Collection{
			Name:   "Test",
			Symbol: "TESTSYMBOL",
		},
		Owner:                 "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		Account:               "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		MaxSupply:             5555,
		MaxAllowlistSupply:    2000,
		MaxAllowlistPerWallet: 2,
		AllowlistPrice:        "0.15",
		PublicPrice:           "0.15",
	}
}

func DefaultSplits() []Split {
	return []Split{
		{Recipient: "0x0aaDEEf83545196CCB2ce70FaBF8be1Afa3C9B87", Percent: "10"},
		{Recipient: "0x95C62Cfc4dcf2615b6D0Ee27CE17578B8b446C64", Percent: "27.5"},
		{Recipient: "0x8E245915AE95a14c235FBDA3946d2A12048F92f2", Percent: "31.25"},
		{Recipient: "0x4d85c1A432213D965aDCba935520A024399D26c0", Percent: "15.625"},
		{Recipient: "0xF69503e221117e7619E9FDdb9665417E7D643BeE", Percent: "15.625"},
	}
}
