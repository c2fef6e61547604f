package errorhandler

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/mintgate/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		err    error
		status int
		body   fiber.Map
		ok     bool
	}{
		{
			name:   "public_error",
			err:    errors.WithStack(errs.NewPublicError("validation error: 'quantity' is required")),
			status: http.StatusBadRequest,
			body:   fiber.Map{"error": "validation error: 'quantity' is required"},
			ok:     true,
		},
		{
			name:   "unauthorized",
			err:    errors.Wrap(errs.Unauthorized, "caller is not the owner"),
			status: http.StatusForbidden,
			body:   fiber.Map{"error": "caller is not the owner: Unauthorized", "code": "Unauthorized"},
			ok:     true,
		},
		{
			name:   "fiber_error",
			err:    fiber.NewError(http.StatusUnauthorized, "invalid or missing admin API key"),
			status: http.StatusUnauthorized,
			body:   fiber.Map{"error": "invalid or missing admin API key"},
			ok:     true,
		},
		{
			name:   "internal",
			err:    errors.New("connection refused"),
			status: http.StatusInternalServerError,
			body:   fiber.Map{"error": "Internal Server Error"},
			ok:     false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			status, body, ok := Resolve(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.body, body)
			assert.Equal(t, tc.ok, ok)
		})
	}
}
