package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"travelku_backend/internals/middlewares/logger"
)

// SetupMiddlewares mounts the global middleware chain.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
