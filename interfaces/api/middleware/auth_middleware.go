package middleware

import (
	"errors"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// Protected validates the bearer token and stores the caller in
// c.Locals("user"). Nothing downstream runs without a valid token.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			logger.DebugContext(c.UserContext(), "Token validation failed", "error", err)
			return utils.UnauthorizedResponse(c, tokenErrorMessage(err))
		}

		c.Locals("user", userCtx)
		c.SetUserContext(logger.ContextWithUserID(c.UserContext(), userCtx.ID.String()))

		return c.Next()
	}
}

// WebSocketAuth accepts the token from the Authorization header or the
// ?token= query parameter, since browsers cannot set headers on upgrade.
func WebSocketAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
		if token == "" {
			token = c.Query("token")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			return utils.UnauthorizedResponse(c, tokenErrorMessage(err))
		}

		c.Locals("user", userCtx)
		return c.Next()
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, utils.ErrMissingToken):
		return "Missing token"
	case errors.Is(err, utils.ErrInvalidToken):
		return "Invalid token"
	default:
		return "Token validation failed"
	}
}
