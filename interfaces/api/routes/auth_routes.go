package routes

import (
	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	auth := api.Group("/auth")
	auth.Post("/register", h.AuthHandler.Register)
	auth.Post("/login", h.AuthHandler.Login)
	auth.Get("/me", middleware.Protected(jwtSecret), h.UserHandler.GetProfile)
}
