package routes

import (
	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupActivityRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	activity := api.Group("/activity")
	activity.Use(middleware.Protected(jwtSecret))
	activity.Get("/", h.ActivityHandler.ListActivity)
}

func SetupExportRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	exports := api.Group("/exports")
	exports.Use(middleware.Protected(jwtSecret))
	exports.Post("/tasks", h.ExportHandler.ExportTasks)
}
