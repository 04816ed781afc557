// Package routes wires middleware and HTTP endpoints onto the Fiber app.
package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/clearbook/clearbook/internal/config"
	"github.com/clearbook/clearbook/internal/engine"
	"github.com/clearbook/clearbook/internal/ledger"
	"github.com/clearbook/clearbook/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes. Cache is
// optional; without it the idempotency middleware is skipped.
type Deps struct {
	Cfg       config.Config
	Cache     *redis.Client
	Logger    *slog.Logger
	Ledger    *ledger.Ledger
	Processor *engine.Processor
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	RegisterTransactionRoutes(api, engine.NewHandler(d.Processor))
	RegisterAccountRoutes(api, ledger.NewHandler(d.Ledger))
}
