package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/modules/mint/internal/merkle"
	"github.com/gofiber/fiber/v2"
	"github.com/holiman/uint256"
)

// mintRequest is the body of a paid mint. A zero quantity is passed through and rejected by the
// ledger.
type mintRequest struct {
	// Recipient defaults to the caller.
	Recipient string   `json:"recipient"`
	Quantity  uint64   `json:"quantity"`
	Payment   string   `json:"payment"`
	Proof     []string `json:"proof"`
}

type mintArgs struct {
	recipient entity.Address
	quantity  uint64
	payment   *uint256.Int
	proof     []merkle.Hash
}

func (r mintRequest) Parse(caller entity.Address, withProof bool) (mintArgs, error) {
	var errList []error
	recipient, err := parseOptionalAddress("recipient", r.Recipient, caller)
	if err != nil {
		errList = append(errList, err)
	}
	payment, err := parseAmount("payment", r.Payment)
	if err != nil {
		errList = append(errList, err)
	}
	var proof []merkle.Hash
	if withProof {
		proof, err = merkle.ParseProof(r.Proof)
		if err != nil {
			errList = append(errList, errors.New("'proof' must be a list of 32-byte hex hashes"))
		}
	}
	if err := errs.WithPublicMessage(errors.Join(errList...), "validation error"); err != nil {
		return mintArgs{}, err
	}
	return mintArgs{
		recipient: recipient,
		quantity:  r.Quantity,
		payment:   payment,
		proof:     proof,
	}, nil
}

type mintResponse = HttpResponse[mintEvent]

func (h *HttpHandler) AllowlistMint(ctx *fiber.Ctx) (err error) {
	sender, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req mintRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	args, err := req.Parse(sender, true)
	if err != nil {
		return errors.WithStack(err)
	}

	event, err := h.controller.AllowlistMint(ctx.UserContext(), sender, args.recipient, args.quantity, args.proof, args.payment)
	if err != nil {
		return errors.WithStack(err)
	}

	result := mapMintEvent(*event)
	return errors.WithStack(ctx.JSON(mintResponse{Result: &result}))
}

func (h *HttpHandler) PublicMint(ctx *fiber.Ctx) (err error) {
	sender, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req mintRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	args, err := req.Parse(sender, false)
	if err != nil {
		return errors.WithStack(err)
	}

	event, err := h.controller.PublicMint(ctx.UserContext(), sender, args.recipient, args.quantity, args.payment)
	if err != nil {
		return errors.WithStack(err)
	}

	result := mapMintEvent(*event)
	return errors.WithStack(ctx.JSON(mintResponse{Result: &result}))
}

type internalMintRequest struct {
	Recipient string `json:"recipient"`
	Quantity  uint64 `json:"quantity"`
}

func (h *HttpHandler) InternalMint(ctx *fiber.Ctx) (err error) {
	var req internalMintRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	recipient, err := parseAddress("recipient", req.Recipient)
	if err != nil {
		return errs.WithPublicMessage(err, "validation error")
	}

	event, err := h.controller.InternalMint(ctx.UserContext(), h.owner, req.Quantity, recipient)
	if err != nil {
		return errors.WithStack(err)
	}

	result := mapMintEvent(*event)
	return errors.WithStack(ctx.JSON(mintResponse{Result: &result}))
}
