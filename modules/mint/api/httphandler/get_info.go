package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/modules/mint/internal/controller"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type revenueShare struct {
	Recipient string `json:"recipient"`
	Percent   string `json:"percent"`
}

type getInfoResult struct {
	Name                  string         `json:"name"`
	Symbol                string         `json:"symbol"`
	Owner                 string         `json:"owner"`
	Account               string         `json:"account"`
	MaxSupply             uint64         `json:"maxSupply"`
	MaxAllowlistSupply    uint64         `json:"maxAllowlistSupply"`
	MaxAllowlistPerWallet uint64         `json:"maxAllowlistPerWallet"`
	TotalSupply           uint64         `json:"totalSupply"`
	AllowlistMinted       uint64         `json:"allowlistMinted"`
	AllowlistActive       bool           `json:"allowlistActive"`
	PublicActive          bool           `json:"publicActive"`
	AllowlistPrice        string         `json:"allowlistPrice"`
	PublicPrice           string         `json:"publicPrice"`
	AllowlistRoot         string         `json:"allowlistRoot"`
	Balance               string         `json:"balance"`
	Shares                []revenueShare `json:"shares"`
}

type getInfoResponse = HttpResponse[getInfoResult]

func mapInfo(info controller.Info) getInfoResult {
	return getInfoResult{
		Name:                  info.Name,
		Symbol:                info.Symbol,
		Owner:                 info.Owner.String(),
		Account:               info.Account.String(),
		MaxSupply:             info.MaxSupply,
		MaxAllowlistSupply:    info.MaxAllowlistSupply,
		MaxAllowlistPerWallet: info.MaxAllowlistPerWallet,
		TotalSupply:           info.TotalSupply,
		AllowlistMinted:       info.AllowlistMinted,
		AllowlistActive:       info.Phases.AllowlistActive,
		PublicActive:          info.Phases.PublicActive,
		AllowlistPrice:        formatAmount(info.Prices.AllowlistPrice),
		PublicPrice:           formatAmount(info.Prices.PublicPrice),
		AllowlistRoot:         info.AllowlistRoot.String(),
		Balance:               formatAmount(info.Balance),
		Shares: lo.Map(info.Shares, func(share entity.RevenueShare, _ int) revenueShare {
			return revenueShare{
				Recipient: share.Recipient.String(),
				// numerators are thousandths of a percent
				Percent: decimal.New(int64(share.Numerator), -3).String(),
			}
		}),
	}
}

func (h *HttpHandler) GetInfo(ctx *fiber.Ctx) (err error) {
	result := mapInfo(h.controller.Info())
	resp := getInfoResponse{
		Result: &result,
	}
	return errors.WithStack(ctx.JSON(resp))
}
