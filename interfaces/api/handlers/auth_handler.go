package handlers

import (
	"taskhub/domain/dto"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Registration failed", "email", req.Email, "error", err)
		return utils.HandleServiceError(c, err)
	}

	token, expiresAt, err := h.userService.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate token", "user_id", user.ID, "error", err)
		return utils.InternalServerErrorResponse(c)
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID)

	return utils.CreatedResponse(c, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      *dto.UserToUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	token, expiresAt, user, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Login failed", "email", req.Email, "error", err)
		return utils.HandleServiceError(c, err)
	}

	logger.InfoContext(ctx, "User logged in", "user_id", user.ID)

	return utils.SuccessResponse(c, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      *dto.UserToUserResponse(user),
	})
}
