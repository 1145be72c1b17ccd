package server

import (
	"errors"
	"strings"

	"arena-sync/core/logger"
	"arena-sync/core/metrics"
	"arena-sync/core/middleware/auth"
	"arena-sync/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// publicPrefixes are reachable without an API key.
var publicPrefixes = []string{"/swagger", "/metrics", "/healthz"}

// New creates the fiber application with the shared middleware chain:
// ray id, request logging, public endpoints, then API key authentication.
// Feature routes registered afterwards are protected.
func New(cfg Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	// RayID must be first to trace everything
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(log, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{
		ApiKey: cfg.ApiKey,
		Skip: func(c *fiber.Ctx) bool {
			for _, p := range publicPrefixes {
				if strings.HasPrefix(c.Path(), p) {
					return true
				}
			}
			return false
		},
	}))

	return app
}

// errorHandler renders errors as JSON bodies.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.WithRayID(log, c).Error("Unhandled error", zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
