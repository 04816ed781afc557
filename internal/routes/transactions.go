package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clearbook/clearbook/internal/engine"
)

// RegisterTransactionRoutes wires the ingestion endpoint.
func RegisterTransactionRoutes(r fiber.Router, h *engine.Handler) {
	r.Post("/transactions", h.Submit)
}
