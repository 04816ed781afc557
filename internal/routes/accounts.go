package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearbook/clearbook/internal/ledger"
)

// RegisterAccountRoutes wires the read-only account endpoints.
func RegisterAccountRoutes(r fiber.Router, h *ledger.Handler) {
	r.Get("/accounts", h.List)
	r.Get("/accounts/:clientId", h.Get)
	r.Get("/accounts/:clientId/history", h.History)
}
