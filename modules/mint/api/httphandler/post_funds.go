package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gofiber/fiber/v2"
)

type fundRequest struct {
	Amount string `json:"amount"`
}

type balanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type balanceResponse = HttpResponse[balanceResult]

// Fund sends currency from the caller to the ledger's account.
func (h *HttpHandler) Fund(ctx *fiber.Ctx) (err error) {
	sender, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req fundRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return errs.WithPublicMessage(err, "validation error")
	}

	if err := h.controller.Fund(ctx.UserContext(), sender, amount); err != nil {
		return errors.WithStack(err)
	}

	resp := balanceResponse{
		Result: &balanceResult{
			Address: sender.String(),
			Balance: formatAmount(h.controller.BalanceOf(sender)),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type depositRequest struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// Deposit credits an account with currency entering the ledger from outside.
func (h *HttpHandler) Deposit(ctx *fiber.Ctx) (err error) {
	var req depositRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	var errList []error
	to, err := parseAddress("address", req.Address)
	if err != nil {
		errList = append(errList, err)
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		errList = append(errList, err)
	}
	if err := errs.WithPublicMessage(errors.Join(errList...), "validation error"); err != nil {
		return err
	}

	if err := h.controller.Deposit(ctx.UserContext(), h.owner, to, amount); err != nil {
		return errors.WithStack(err)
	}

	resp := balanceResponse{
		Result: &balanceResult{
			Address: to.String(),
			Balance: formatAmount(h.controller.BalanceOf(to)),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type withdrawResponse = HttpResponse[withdrawal]

// WithdrawSplits pays the ledger's balance out to the revenue share recipients. Any caller may
// trigger it, so no caller header is required.
func (h *HttpHandler) WithdrawSplits(ctx *fiber.Ctx) (err error) {
	w, err := h.controller.WithdrawSplits(ctx.UserContext())
	if err != nil {
		return errors.WithStack(err)
	}
	result := mapWithdrawal(*w)
	return errors.WithStack(ctx.JSON(withdrawResponse{Result: &result}))
}
