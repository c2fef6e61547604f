package mint

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/config"
	"github.com/gaze-network/mintgate/modules/mint/internal/controller"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/gaze-network/mintgate/modules/mint/internal/splitter"
	"github.com/gaze-network/mintgate/pkg/decimals"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/shopspring/decimal"
)

var (
	percentToNumerator = decimal.NewFromInt(entity.ShareDenominator / 100)
	maxNumerator       = decimal.NewFromInt(entity.ShareDenominator)
)

// ParseConfig converts the module configuration into controller parameters.
func ParseConfig(conf config.Config) (controller.Params, error) {
	owner, err := parseAddress("owner", conf.Owner)
	if err != nil {
		return controller.Params{}, errors.WithStack(err)
	}
	account, err := parseAddress("account", conf.Account)
	if err != nil {
		return controller.Params{}, errors.WithStack(err)
	}
	if conf.MaxAllowlistSupply > conf.MaxSupply {
		return controller.Params{}, errors.Wrapf(errs.InvalidArgument, "max_allowlist_supply %d exceeds max_supply %d", conf.MaxAllowlistSupply, conf.MaxSupply)
	}

	allowlistPrice, err := decimals.ParseEther(conf.AllowlistPrice)
	if err != nil {
		return controller.Params{}, errors.Wrap(err, "invalid allowlist_price")
	}
	publicPrice, err := decimals.ParseEther(conf.PublicPrice)
	if err != nil {
		return controller.Params{}, errors.Wrap(err, "invalid public_price")
	}

	var root merkle.Hash
	if conf.AllowlistRoot != "" {
		root, err = merkle.ParseHash(conf.AllowlistRoot)
		if err != nil {
			return controller.Params{}, errors.Wrap(err, "invalid allowlist_root")
		}
	}

	splits := conf.Splits
	if len(splits) == 0 {
		splits = config.DefaultSplits()
	}
	shares, err := parseShares(splits)
	if err != nil {
		return controller.Params{}, errors.WithStack(err)
	}

	return controller.Params{
		Name:                  conf.Collection.Name,
		Symbol:                conf.Collection.Symbol,
		Owner:                 owner,
		Account:               account,
		MaxSupply:             conf.MaxSupply,
		MaxAllowlistSupply:    conf.MaxAllowlistSupply,
		MaxAllowlistPerWallet: conf.MaxAllowlistPerWallet,
		Prices: entity.PriceTable{
			AllowlistPrice: allowlistPrice,
			PublicPrice:    publicPrice,
		},
		AllowlistRoot: root,
		Shares:        shares,
	}, nil
}

func parseAddress(field, s string) (entity.Address, error) {
	addr, err := ethtypes.NewAddress(s)
	if err != nil {
		return entity.Address{}, errors.Wrapf(errs.InvalidArgument, "invalid %s address %q", field, s)
	}
	return *addr, nil
}

// parseShares converts percentages such as "15.625" into thousandths of a percent.
func parseShares(splits []config.Split) ([]entity.RevenueShare, error) {
	shares := make([]entity.RevenueShare, 0, len(splits))
	for i, split := range splits {
		recipient, err := parseAddress("splits recipient", split.Recipient)
		if err != nil {
			return nil, errors.Wrapf(err, "splits[%d]", i)
		}
		percent, err := decimal.NewFromString(split.Percent)
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "splits[%d]: invalid percent %q", i, split.Percent)
		}
		numerator := percent.Mul(percentToNumerator)
		if !numerator.IsInteger() || !numerator.IsPositive() || numerator.GreaterThan(maxNumerator) {
			return nil, errors.Wrapf(errs.InvalidArgument, "splits[%d]: percent %q must be in (0, 100] with at most 3 decimals", i, split.Percent)
		}
		shares = append(shares, entity.RevenueShare{
			Recipient: recipient,
			Numerator: uint64(numerator.IntPart()),
		})
	}
	if err := splitter.Validate(shares); err != nil {
		return nil, errors.Wrap(err, "invalid splits")
	}
	return shares, nil
}
