package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gofiber/fiber/v2"
)

type walletRequest struct {
	Wallet string `params:"wallet"`
}

func (r walletRequest) Parse() (entity.Address, error) {
	addr, err := parseAddress("wallet", r.Wallet)
	if err != nil {
		return entity.Address{}, errs.WithPublicMessage(err, "validation error")
	}
	return addr, nil
}

type getAllowlistStatusResult struct {
	Wallet       string `json:"wallet"`
	Minted       uint64 `json:"minted"`
	MaxPerWallet uint64 `json:"maxPerWallet"`
	Remaining    uint64 `json:"remaining"`
	Active       bool   `json:"active"`
}

type getAllowlistStatusResponse = HttpResponse[getAllowlistStatusResult]

func (h *HttpHandler) GetAllowlistStatus(ctx *fiber.Ctx) (err error) {
	var req walletRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	wallet, err := req.Parse()
	if err != nil {
		return errors.WithStack(err)
	}

	info := h.controller.Info()
	minted := h.controller.AllowlistCounter(wallet)
	var remaining uint64
	if minted < info.MaxAllowlistPerWallet {
		remaining = info.MaxAllowlistPerWallet - minted
	}

	resp := getAllowlistStatusResponse{
		Result: &getAllowlistStatusResult{
			Wallet:       wallet.String(),
			Minted:       minted,
			MaxPerWallet: info.MaxAllowlistPerWallet,
			Remaining:    remaining,
			Active:       info.Phases.AllowlistActive,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getWalletResult struct {
	Wallet          string   `json:"wallet"`
	Tokens          []uint64 `json:"tokens"`
	Balance         string   `json:"balance"`
	AllowlistMinted uint64   `json:"allowlistMinted"`
}

type getWalletResponse = HttpResponse[getWalletResult]

func (h *HttpHandler) GetWallet(ctx *fiber.Ctx) (err error) {
	var req walletRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	wallet, err := req.Parse()
	if err != nil {
		return errors.WithStack(err)
	}

	w := h.controller.Wallet(wallet)
	tokens := w.Tokens
	if tokens == nil {
		tokens = []uint64{}
	}
	resp := getWalletResponse{
		Result: &getWalletResult{
			Wallet:          w.Address.String(),
			Tokens:          tokens,
			Balance:         formatAmount(w.Balance),
			AllowlistMinted: w.AllowlistCount,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
