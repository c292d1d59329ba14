package websocket

import (
	websocketManager "taskhub/infrastructure/websocket"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler upgrades authenticated requests and hands the connection
// to the manager, which pushes the user's activity events to it.
type WebSocketHandler struct {
	manager *websocketManager.Manager
}

func NewWebSocketHandler(manager *websocketManager.Manager) *WebSocketHandler {
	return &WebSocketHandler{manager: manager}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	user, ok := c.Locals("user").(*utils.UserContext)
	if !ok || user == nil {
		c.Close()
		return
	}

	logger.Info("WebSocket connected", "user_id", user.ID)

	h.manager.RegisterClient(c, user.ID)
	defer h.manager.UnregisterClient(c)

	// Clients never send anything meaningful; reading only detects disconnects.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			logger.Debug("WebSocket closed", "user_id", user.ID, "error", err)
			return
		}
	}
}
