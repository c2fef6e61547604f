package httphandler

import (
	"crypto/subtle"

	"github.com/gaze-network/mintgate/pkg/middleware/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/mint/v1", errorhandler.New())

	r.Get("/info", h.GetInfo)
	r.Get("/allowlist/:wallet", h.GetAllowlistStatus)
	r.Get("/tokens/:id", h.GetToken)
	r.Get("/wallets/:wallet", h.GetWallet)
	r.Get("/events", h.GetMintEvents)
	r.Get("/withdrawals", h.GetWithdrawals)
	r.Post("/mint/allowlist", h.AllowlistMint)
	r.Post("/mint/public", h.PublicMint)
	r.Post("/tokens/:id/transfer", h.TransferToken)
	r.Post("/fund", h.Fund)
	r.Post("/withdraw", h.WithdrawSplits)

	if h.adminAPIKey == "" {
		return nil
	}
	admin := r.Group("/admin", keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), []byte(h.adminAPIKey)) != 1 {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			return true, nil
		},
		ErrorHandler: func(_ *fiber.Ctx, _ error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing admin API key")
		},
	}))
	admin.Post("/mint/internal", h.InternalMint)
	admin.Put("/allowlist/root", h.SetAllowlistRoot)
	admin.Put("/phases", h.SetPhases)
	admin.Put("/allowlist/max-per-wallet", h.SetMaxAllowlist)
	admin.Put("/allowlist/supply", h.SetAllowlistSupply)
	admin.Put("/prices", h.SetPrices)
	admin.Delete("/allowlist/:wallet", h.ResetAllowlistCounter)
	admin.Post("/deposits", h.Deposit)
	return nil
}
