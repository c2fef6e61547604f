package postgres

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

func uint256FromNumeric(src pgtype.Numeric) (*uint256.Int, error) {
	if !src.Valid {
		return new(uint256.Int), nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	result, err := uint256.FromDecimal(string(bytes))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid uint256 numeric %q", string(bytes))
	}
	return result, nil
}

func numericFromUint256(src *uint256.Int) (pgtype.Numeric, error) {
	if src == nil {
		src = new(uint256.Int)
	}
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(src.Dec())); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

func addressFromBytes(src []byte) (entity.Address, error) {
	var addr entity.Address
	if len(src) != len(addr) {
		return entity.Address{}, errors.Errorf("invalid address length %d", len(src))
	}
	copy(addr[:], src)
	return addr, nil
}

type ledgerStateModel struct {
	TotalIssued           int64
	AllowlistIssued       int64
	InternalIssued        int64
	MaxSupply             int64
	MaxAllowlistSupply    int64
	MaxAllowlistPerWallet int64
	AllowlistActive       bool
	PublicActive          bool
	AllowlistPrice        pgtype.Numeric
	PublicPrice           pgtype.Numeric
	AllowlistRoot         []byte
	UpdatedAt             pgtype.Timestamptz
}

func mapLedgerStateModelToType(src ledgerStateModel) (entity.LedgerState, error) {
	allowlistPrice, err := uint256FromNumeric(src.AllowlistPrice)
	if err != nil {
		return entity.LedgerState{}, errors.Wrap(err, "failed to parse allowlist price")
	}
	publicPrice, err := uint256FromNumeric(src.PublicPrice)
	if err != nil {
		return entity.LedgerState{}, errors.Wrap(err, "failed to parse public price")
	}
	var root [32]byte
	if len(src.AllowlistRoot) != len(root) {
		return entity.LedgerState{}, errors.Errorf("invalid allowlist root length %d", len(src.AllowlistRoot))
	}
	copy(root[:], src.AllowlistRoot)
	var updatedAt time.Time
	if src.UpdatedAt.Valid {
		updatedAt = src.UpdatedAt.Time.UTC()
	}
	return entity.LedgerState{
		Supply: entity.SupplyCounters{
			TotalIssued:     uint64(src.TotalIssued),
			AllowlistIssued: uint64(src.AllowlistIssued),
			InternalIssued:  uint64(src.InternalIssued),
		},
		MaxSupply:             uint64(src.MaxSupply),
		MaxAllowlistSupply:    uint64(src.MaxAllowlistSupply),
		MaxAllowlistPerWallet: uint64(src.MaxAllowlistPerWallet),
		Phases: entity.PhaseFlags{
			AllowlistActive: src.AllowlistActive,
			PublicActive:    src.PublicActive,
		},
		Prices: entity.PriceTable{
			AllowlistPrice: allowlistPrice,
			PublicPrice:    publicPrice,
		},
		AllowlistRoot: root,
		UpdatedAt:     updatedAt,
	}, nil
}

func mapLedgerStateTypeToModel(src entity.LedgerState) (ledgerStateModel, error) {
	allowlistPrice, err := numericFromUint256(src.Prices.AllowlistPrice)
	if err != nil {
		return ledgerStateModel{}, errors.Wrap(err, "failed to convert allowlist price")
	}
	publicPrice, err := numericFromUint256(src.Prices.PublicPrice)
	if err != nil {
		return ledgerStateModel{}, errors.Wrap(err, "failed to convert public price")
	}
	return ledgerStateModel{
		TotalIssued:           int64(src.Supply.TotalIssued),
		AllowlistIssued:       int64(src.Supply.AllowlistIssued),
		InternalIssued:        int64(src.Supply.InternalIssued),
		MaxSupply:             int64(src.MaxSupply),
		MaxAllowlistSupply:    int64(src.MaxAllowlistSupply),
		MaxAllowlistPerWallet: int64(src.MaxAllowlistPerWallet),
		AllowlistActive:       src.Phases.AllowlistActive,
		PublicActive:          src.Phases.PublicActive,
		AllowlistPrice:        allowlistPrice,
		PublicPrice:           publicPrice,
		AllowlistRoot:         src.AllowlistRoot[:],
		UpdatedAt:             pgtype.Timestamptz{Time: src.UpdatedAt, Valid: !src.UpdatedAt.IsZero()},
	}, nil
}

type payoutModel struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func mapPayoutsTypeToModel(src []entity.Payout) ([]byte, error) {
	payouts := lo.Map(src, func(p entity.Payout, _ int) payoutModel {
		return payoutModel{Recipient: p.Recipient.String(), Amount: p.Amount.Dec()}
	})
	data, err := json.Marshal(payouts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

func mapPayoutsModelToType(src []byte) ([]entity.Payout, error) {
	var payouts []payoutModel
	if err := json.Unmarshal(src, &payouts); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal payouts")
	}
	result := make([]entity.Payout, 0, len(payouts))
	for _, p := range payouts {
		recipient, err := ethtypes.NewAddress(p.Recipient)
		if err != nil {
			return nil, errors.Wrap(err, "invalid payout recipient")
		}
		amount, err := uint256.FromDecimal(p.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "invalid payout amount")
		}
		result = append(result, entity.Payout{Recipient: *recipient, Amount: amount})
	}
	return result, nil
}
