package routes

import (
	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.Protected(jwtSecret))
	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Get("/search", h.TaskHandler.SearchTasks)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Get("/:id/subtasks", h.TaskHandler.GetSubtasks)
	tasks.Get("/:id/completion", h.TaskHandler.GetCompletion)
	tasks.Patch("/:id", h.TaskHandler.UpdateTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)
	tasks.Post("/:id/complete", h.TaskHandler.CompleteTask)
	tasks.Post("/:id/uncomplete", h.TaskHandler.UncompleteTask)
}
