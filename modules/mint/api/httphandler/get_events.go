package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/datagateway"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getMintEventsRequest struct {
	paginationRequest
	Wallet string `query:"wallet"`
}

func (r getMintEventsRequest) Parse() (datagateway.GetMintEventsParams, error) {
	var errList []error
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	var wallet *entity.Address
	if r.Wallet != "" {
		addr, err := parseAddress("wallet", r.Wallet)
		if err != nil {
			errList = append(errList, err)
		}
		wallet = &addr
	}
	if err := errs.WithPublicMessage(errors.Join(errList...), "validation error"); err != nil {
		return datagateway.GetMintEventsParams{}, err
	}
	r.ParseDefault()
	return datagateway.GetMintEventsParams{
		Wallet: wallet,
		Limit:  r.Limit,
		Offset: r.Offset,
	}, nil
}

type mintEvent struct {
	Id           int64     `json:"id"`
	Category     string    `json:"category"`
	Sender       string    `json:"sender"`
	Recipient    string    `json:"recipient"`
	Quantity     uint64    `json:"quantity"`
	Payment      string    `json:"payment"`
	FirstTokenId uint64    `json:"firstTokenId"`
	TokenIds     []uint64  `json:"tokenIds"`
	CreatedAt    time.Time `json:"createdAt"`
}

func mapMintEvent(event entity.MintEvent) mintEvent {
	return mintEvent{
		Id:           event.ID,
		Category:     event.Category.String(),
		Sender:       event.Sender.String(),
		Recipient:    event.Recipient.String(),
		Quantity:     event.Quantity,
		Payment:      formatAmount(event.Payment),
		FirstTokenId: event.FirstTokenID,
		TokenIds:     lo.RangeFrom(event.FirstTokenID, int(event.Quantity)),
		CreatedAt:    event.CreatedAt,
	}
}

type getMintEventsResult struct {
	List []mintEvent `json:"list"`
}

type getMintEventsResponse = HttpResponse[getMintEventsResult]

func (h *HttpHandler) GetMintEvents(ctx *fiber.Ctx) (err error) {
	var req getMintEventsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	params, err := req.Parse()
	if err != nil {
		return errors.WithStack(err)
	}

	events, err := h.controller.MintEvents(ctx.UserContext(), params)
	if err != nil {
		return errors.Wrap(err, "error during MintEvents")
	}

	resp := getMintEventsResponse{
		Result: &getMintEventsResult{
			List: lo.Map(events, func(event entity.MintEvent, _ int) mintEvent {
				return mapMintEvent(event)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
