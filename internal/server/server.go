package server

import (
	"errors"

	"perkakas/internal/handlers"
	"perkakas/internal/metrics"
	"perkakas/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// New builds the fiber app with middleware and every route registered.
func New(products *handlers.ProductHandler, diagnostics *handlers.DiagnosticsHandler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "perkakas",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(logger))
	app.Use(metrics.Middleware())
	app.Use(cors.New())

	diagnostics.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	products.RegisterRoutes(app.Group("/api"))
	return app
}

// errorHandler keeps fiber's own errors (404 on unknown routes, 405, ...)
// in the same body shape the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
