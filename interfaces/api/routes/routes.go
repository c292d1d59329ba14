package routes

import (
	"taskhub/interfaces/api/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, jwtSecret string) {
	// Setup health and root routes
	SetupHealthRoutes(app)

	// API version group
	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h, jwtSecret)
	SetupTaskRoutes(api, h, jwtSecret)
	SetupProjectRoutes(api, h, jwtSecret)
	SetupActivityRoutes(api, h, jwtSecret)
	SetupExportRoutes(api, h, jwtSecret)

	// WebSocket lives outside the API group
	SetupWebSocketRoutes(app, h, jwtSecret)
}
