package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/modules/mint/internal/controller"
	"github.com/gaze-network/mintgate/modules/mint/internal/entity"
	"github.com/gaze-network/mintgate/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
	"github.com/holiman/uint256"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

type HttpHandler struct {
	controller  *controller.Controller
	owner       entity.Address
	adminAPIKey string
}

// New creates the mint API. Admin routes act as owner and are only mounted when adminAPIKey is set.
func New(c *controller.Controller, owner entity.Address, adminAPIKey string) *HttpHandler {
	return &HttpHandler{
		controller:  c,
		owner:       owner,
		adminAPIKey: adminAPIKey,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type paginationRequest struct {
	Limit  int32 `query:"limit"`
	Offset int32 `query:"offset"`
}

func (r paginationRequest) Validate() error {
	var errList []error
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > maxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", maxLimit))
	}
	if r.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	return errors.Join(errList...)
}

func (r *paginationRequest) ParseDefault() {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
}

// caller returns the account the request acts as.
func caller(ctx *fiber.Ctx) (entity.Address, error) {
	addr, ok := requestcontext.GetCaller(ctx.UserContext())
	if !ok {
		return entity.Address{}, fiber.NewError(fiber.StatusUnauthorized, "missing "+requestcontext.CallerHeader+" header")
	}
	return addr, nil
}

func parseAddress(field, s string) (entity.Address, error) {
	if s == "" {
		return entity.Address{}, errors.Errorf("'%s' is required", field)
	}
	addr, err := ethtypes.NewAddress(s)
	if err != nil {
		return entity.Address{}, errors.Errorf("'%s' is not a valid address", field)
	}
	return *addr, nil
}

// parseOptionalAddress returns fallback when s is empty.
func parseOptionalAddress(field, s string, fallback entity.Address) (entity.Address, error) {
	if s == "" {
		return fallback, nil
	}
	return parseAddress(field, s)
}

// parseAmount parses a wei amount given as a decimal string.
func parseAmount(field, s string) (*uint256.Int, error) {
	if s == "" {
		return nil, errors.Errorf("'%s' is required", field)
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Errorf("'%s' is not a valid wei amount", field)
	}
	return amount, nil
}

func formatAmount(amount *uint256.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.Dec()
}

// parseBody decodes the request body into out. Malformed bodies are the client's fault.
func parseBody(ctx *fiber.Ctx, out any) error {
	if err := ctx.BodyParser(out); err != nil {
		return errs.WithPublicMessage(err, "invalid request body")
	}
	return nil
}
