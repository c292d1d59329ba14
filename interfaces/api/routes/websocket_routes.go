package routes

import (
	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func SetupWebSocketRoutes(app *fiber.App, h *handlers.Handlers, jwtSecret string) {
	wsHandler := h.WebSocketHandler

	app.Use("/ws", middleware.WebSocketAuth(jwtSecret), wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
