package routes

import (
	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupProjectRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	projects := api.Group("/projects")
	projects.Use(middleware.Protected(jwtSecret))
	projects.Post("/", h.ProjectHandler.CreateProject)
	projects.Get("/", h.ProjectHandler.ListProjects)
	projects.Get("/:id", h.ProjectHandler.GetProject)
	projects.Put("/:id", h.ProjectHandler.UpdateProject)
	projects.Patch("/:id", h.ProjectHandler.UpdateProject)
	projects.Delete("/:id", h.ProjectHandler.DeleteProject)
}
