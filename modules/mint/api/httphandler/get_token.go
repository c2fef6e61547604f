package httphandler

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gofiber/fiber/v2"
)

type tokenRequest struct {
	Id string `params:"id"`
}

func (r tokenRequest) Parse() (uint64, error) {
	id, err := strconv.ParseUint(r.Id, 10, 64)
	if err != nil {
		return 0, errs.NewPublicError("validation error: 'id' must be a token id")
	}
	return id, nil
}

type getTokenResult struct {
	Id    uint64 `json:"id"`
	Owner string `json:"owner"`
}

type getTokenResponse = HttpResponse[getTokenResult]

func (h *HttpHandler) GetToken(ctx *fiber.Ctx) (err error) {
	var req tokenRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	id, err := req.Parse()
	if err != nil {
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
