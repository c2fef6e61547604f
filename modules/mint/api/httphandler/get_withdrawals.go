package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type payout struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type withdrawal struct {
	Id        int64     `json:"id"`
	Balance   string    `json:"balance"`
	Payouts   []payout  `json:"payouts"`
	CreatedAt time.Time `json:"createdAt"`
}

func mapWithdrawal(w entity.Withdrawal) withdrawal {
	return withdrawal{
		Id:      w.ID,
		Balance: formatAmount(w.Balance),
		Payouts: lo.Map(w.Payouts, func(p entity.Payout, _ int) payout {
			return payout{
				Recipient: p.Recipient.String(),
				Amount:    formatAmount(p.Amount),
			}
		}),
		CreatedAt: w.CreatedAt,
	}
}

type getWithdrawalsResult struct {
	List []withdrawal `json:"list"`
}

type getWithdrawalsResponse = HttpResponse[getWithdrawalsResult]

func (h *HttpHandler) GetWithdrawals(ctx *fiber.Ctx) (err error) {
	var req paginationRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errs.WithPublicMessage(err, "validation error")
	}
	req.ParseDefault()

	withdrawals, err := h.controller.Withdrawals(ctx.UserContext(), req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during Withdrawals")
	}

	resp := getWithdrawalsResponse{
		Result: &getWithdrawalsResult{
			List: lo.Map(withdrawals, func(w entity.Withdrawal, _ int) withdrawal {
				return mapWithdrawal(w)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
