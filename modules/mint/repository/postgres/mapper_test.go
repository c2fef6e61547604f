package postgres

import (
	"testing"

	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256FromNumeric(t *testing.T) {
	t.Parallel()
	maxValue := new(uint256.Int).SetAllOne()
	numeric, err := numericFromUint256(maxValue)
	require.NoError(t, err)
	actual, err := uint256FromNumeric(numeric)
	require.NoError(t, err)
	assert.True(t, maxValue.Eq(actual))

	// postgres may hand back trailing zeros as a positive exponent
	actual, err = uint256FromNumeric(pgtype.Numeric{Int: uint256.NewInt(15).ToBig(), Exp: 16, Valid: true})
	require.NoError(t, err)
	assert.Equal(t, "150000000000000000", actual.Dec())

	actual, err = uint256FromNumeric(pgtype.Numeric{})
	require.NoError(t, err)
	assert.True(t, actual.IsZero())
}

func TestLedgerStateModel(t *testing.T) {
	t.Parallel()
	state := entity.LedgerState{
		Supply:                entity.SupplyCounters{TotalIssued: 10, AllowlistIssued: 4, InternalIssued: 6},
		MaxSupply:             5555,
		MaxAllowlistSupply:    2000,
		MaxAllowlistPerWallet: 2,
		Phases:                entity.PhaseFlags{AllowlistActive: true},
		Prices: entity.PriceTable{
			AllowlistPrice: uint256.NewInt(150000000000000000),
			PublicPrice:    uint256.NewInt(200000000000000000),
		},
		AllowlistRoot: [32]byte{0xed, 0x23},
	}
	model, err := mapLedgerStateTypeToModel(state)
	require.NoError(t, err)
	actual, err := mapLedgerStateModelToType(model)
	require.NoError(t, err)
	assert.Equal(t, state, actual)

	model.AllowlistRoot = []byte{0x01}
	_, err = mapLedgerStateModelToType(model)
	assert.Error(t, err)
}

func TestPayoutsModel(t *testing.T) {
	t.Parallel()
	payouts := []entity.Payout{
		{Recipient: *ethtypes.MustNewAddress("0x0aaDEEf83545196CCB2ce70FaBF8be1Afa3C9B87"), Amount: uint256.NewInt(100000000000000000)},
		{Recipient: *ethtypes.MustNewAddress("0x95C62Cfc4dcf2615b6D0Ee27CE17578B8b446C64"), Amount: uint256.NewInt(275000000000000000)},
	}
	data, err := mapPayoutsTypeToModel(payouts)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"recipient": "0x0aadeef83545196ccb2ce70fabf8be1afa3c9b87", "amount": "100000000000000000"},
		{"recipient": "0x95c62cfc4dcf2615b6d0ee27ce17578b8b446c64", "amount": "275000000000000000"}
	]`, string(data))

	actual, err := mapPayoutsModelToType(data)
	require.NoError(t, err)
	assert.Equal(t, payouts, actual)
}
