package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// Resolve returns the status and body answered for err. ok is false when err is not meant for
// the client and must be reported as an internal error.
func Resolve(err error) (status int, body fiber.Map, ok bool) {
	if e := new(errs.PublicError); errors.As(err, &e) {
		body = fiber.Map{"error": e.Message()}
		if e.Code() != "" {
			body["code"] = e.Code()
		}
		return http.StatusBadRequest, body, true
	}
	if kind, found := errs.KindOf(err); found {
		body = fiber.Map{"error": err.Error(), "code": string(kind)}
		switch kind {
		case errs.Unauthorized:
			return http.StatusForbidden, body, true
		case errs.NotFound:
			return http.StatusNotFound, body, true
		default:
			return http.StatusBadRequest, body, true
		}
	}
	if e := new(fiber.Error); errors.As(err, &e) {
		return e.Code, fiber.Map{"error": e.Message}, true
	}
	return http.StatusInternalServerError, fiber.Map{"error": "Internal Server Error"}, false
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		status, body, ok := Resolve(err)
		if !ok {
			logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
				slogx.String("event", "api_unhandled_error"),
			)
		}
		return errors.WithStack(ctx.Status(status).JSON(body))
	}
}
