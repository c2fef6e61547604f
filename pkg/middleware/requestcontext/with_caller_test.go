package requestcontext

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCaller(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Use(New(WithCaller()))
	app.Get("/", func(c *fiber.Ctx) error {
		caller, ok := GetCaller(c.UserContext())
		if !ok {
			return c.SendString("none")
		}
		return c.SendString(caller.String())
	})

	testCases := []struct {
		name     string
		header   string
		status   int
		expected string
	}{
		{
			name:     "no_header",
			status:   http.StatusOK,
			expected: "none",
		},
		{
			name:     "checksummed",
			header:   "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
			status:   http.StatusOK,
			expected: "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc",
		},
		{
			name:     "malformed",
			header:   "0x1234",
			status:   http.StatusBadRequest,
			expected: `{"result":null,"error":"invalid X-Caller-Address header"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(CallerHeader, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.expected, string(body))
		})
	}
}
