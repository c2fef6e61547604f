package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/gofiber/fiber/v2"
	"github.com/holiman/uint256"
)

// Admin handlers act as the owner and answer with the resulting ledger info.

type setAllowlistRootRequest struct {
	Root string `json:"root"`
}

func (h *HttpHandler) SetAllowlistRoot(ctx *fiber.Ctx) (err error) {
	var req setAllowlistRootRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	root, err := merkle.ParseHash(req.Root)
	if err != nil {
		return errs.NewPublicError("validation error: 'root' must be a 32-byte hex hash")
	}
	if err := h.controller.SetAllowlistRoot(ctx.UserContext(), h.owner, root); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(h.GetInfo(ctx))
}

// setPhasesRequest leaves a phase unchanged when its flag is omitted.
type setPhasesRequest struct {
	AllowlistActive *bool `json:"allowlistActive"`
	PublicActive    *bool `json:"publicActive"`
}

func (h *HttpHandler) SetPhases(ctx *fiber.Ctx) (err error) {
	var req setPhasesRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if req.AllowlistActive == nil && req.PublicActive == nil {
		return errs.NewPublicError("validation error: 'allowlistActive' or 'publicActive' is required")
	}
	if err := h.controller.SetPhases(ctx.UserContext(), h.owner, req.AllowlistActive, req.PublicActive); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(h.GetInfo(ctx))
}

type setLimitRequest struct {
	Value *uint64 `json:"value"`
}

func (r setLimitRequest) Parse() (uint64, error) {
	if r.Value == nil {
		return 0, errs.NewPublicError("validation error: 'value' is required")
	}
	return *r.Value, nil
}

func (h *HttpHandler) SetMaxAllowlist(ctx *fiber.Ctx) (err error) {
	var req setLimitRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	n, err := req.Parse()
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.controller.SetMaxAllowlist(ctx.UserContext(), h.owner, n); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(h.GetInfo(ctx))
}

func (h *HttpHandler) SetAllowlistSupply(ctx *fiber.Ctx) (err error) {
	var req setLimitRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	n, err := req.Parse()
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.controller.SetAllowlistSupply(ctx.UserContext(), h.owner, n); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(h.GetInfo(ctx))
}

// setPricesRequest keeps the current price of an omitted phase.
type setPricesRequest struct {
	AllowlistPrice string `json:"allowlistPrice"`
	PublicPrice    string `json:"publicPrice"`
}

func (h *HttpHandler) SetPrices(ctx *fiber.Ctx) (err error) {
	var req setPricesRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if req.AllowlistPrice == "" && req.PublicPrice == "" {
		return errs.NewPublicError("validation error: 'allowlistPrice' or 'publicPrice' is required")
	}
	var (
		errList                     []error
		allowlistPrice, publicPrice *uint256.Int
	)
	if req.AllowlistPrice != "" {
		if allowlistPrice, err = parseAmount("allowlistPrice", req.AllowlistPrice); err != nil {
			errList = append(errList, err)
		}
	}
	if req.PublicPrice != "" {
		if publicPrice, err = parseAmount("publicPrice", req.PublicPrice); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errs.WithPublicMessage(errors.Join(errList...), "validation error"); err != nil {
		return err
	}

	if err := h.controller.SetPrices(ctx.UserContext(), h.owner, allowlistPrice, publicPrice); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(h.GetInfo(ctx))
}

func (h *HttpHandler) ResetAllowlistCounter(ctx *fiber.Ctx) (err error) {
	var req walletRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	wallet, err := req.Parse()
	if err != nil {
		return errors.WithStack(err)
	}
	if err := h.controller.ResetAllowlistCounter(ctx.UserContext(), h.owner, wallet); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(h.GetAllowlistStatus(ctx))
}
