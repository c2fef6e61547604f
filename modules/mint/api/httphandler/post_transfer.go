package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gofiber/fiber/v2"
)

type transferTokenRequest struct {
	// From defaults to the caller.
	From string `json:"from"`
	To   string `json:"to"`
}

func (h *HttpHandler) TransferToken(ctx *fiber.Ctx) (err error) {
	sender, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var params tokenRequest
	if err := ctx.ParamsParser(&params); err != nil {
		return errors.WithStack(err)
	}
	id, err := params.Parse()
	if err != nil {
		return errors.WithStack(err)
	}
	var req transferTokenRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}

	var errList []error
	from, err := parseOptionalAddress("from", req.From, sender)
	if err != nil {
		errList = append(errList, err)
	}
	// the zero address is a valid input here and is rejected by the ledger
	to, err := parseAddress("to", req.To)
	if err != nil {
		errList = append(errList, err)
	}
	if err := errs.WithPublicMessage(errors.Join(errList...), "validation error"); err != nil {
		return err
	}

	if err := h.controller.TransferFrom(ctx.UserContext(), sender, from, to, id); err != nil {
		return errors.WithStack(err)
	}

	owner, err := h.controller.OwnerOf(id)
	if err != nil {
		return errors.WithStack(err)
	}
	resp := getTokenResponse{
		Result: &getTokenResult{
			Id:    id,
			Owner: owner.String(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
