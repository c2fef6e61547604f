package errorhandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/pkg/errorhandler"
	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gaze-network/mintgate/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// New setup error handler middleware
func New() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body, ok := errorhandler.Resolve(err)
		if !ok {
			logger.ErrorContext(ctx.UserContext(), "Something went wrong, api error", err,
				slogx.String("event", "api_error"),
			)
		}
		return errors.WithStack(ctx.Status(status).JSON(body))
	}
}
