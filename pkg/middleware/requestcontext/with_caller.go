package requestcontext

import (
	"context"
	"log/slog"

	"github.com/gaze-network/mintgate/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// CallerHeader carries the account a request acts as. It is expected to be set by an
// authenticating gateway in front of the service.
const CallerHeader = "X-Caller-Address"

type callerKey struct{}

// WithCaller extracts the calling account from [CallerHeader]. Requests without the header have no caller.
func WithCaller() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		raw := c.Get(CallerHeader)
		if raw == "" {
			return ctx, nil
		}
		caller, err := ethtypes.NewAddress(raw)
		if err != nil {
			logger.DebugContext(ctx, "malformed caller header",
				slog.String("event", "requestcontext/invalid_caller"),
				slog.String("module", "requestcontext/with_caller"),
				slog.String("caller", raw),
			)
			return nil, requestcontextError{
				err:     err,
				status:  fiber.StatusBadRequest,
				message: "invalid " + CallerHeader + " header",
			}
		}
		ctx = context.WithValue(ctx, callerKey{}, *caller)
		return logger.WithContext(ctx, "caller", caller.String()), nil
	}
}

// GetCaller returns the calling account from context.
//
// Warning: Request context should be setup before using this function
func GetCaller(ctx context.Context) (ethtypes.Address0xHex, bool) {
	caller, ok := ctx.Value(callerKey{}).(ethtypes.Address0xHex)
	return caller, ok
}
