package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/clearbook/clearbook/internal/config"
	"github.com/clearbook/clearbook/internal/engine"
	"github.com/clearbook/clearbook/internal/ledger"
	"github.com/clearbook/clearbook/internal/routes"
)

// Server wraps the Fiber application together with the ledger and its
// ingestion processor.
type Server struct {
	app       *fiber.App
	cfg       config.Config
	processor *engine.Processor
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, cache *redis.Client, logger *slog.Logger, led *ledger.Ledger, processor *engine.Processor) *Server {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	routes.Setup(app, routes.Deps{
		Cfg:       cfg,
		Cache:     cache,
		Logger:    logger,
		Ledger:    led,
		Processor: processor,
	})

	return &Server{app: app, cfg: cfg, processor: processor}
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown stops the HTTP server, then drains the ingestion queues so
// every accepted transaction is applied before the process exits.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return err
	}
	s.processor.Close()
	return nil
}
